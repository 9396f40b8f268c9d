package worker

// invoice_worker.go
// Processes receipt generation jobs from QueueInvoice.
// Creates the Invoice record, renders the PDF with exponential backoff
// (max 3 attempts) and optionally enqueues an email job when the sale's
// customer has an email on file.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"depotpos/internal/billing"
	"depotpos/internal/infra"
	"depotpos/internal/model"
	"depotpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxInvoiceRetries is the ceiling the retry cron enforces before a job
// lands in the DLQ.
const MaxInvoiceRetries = 5

// InvoiceJobPayload is the job envelope sent to QueueInvoice.
type InvoiceJobPayload struct {
	SaleID string `json:"sale_id"`
}

type InvoiceWorker struct {
	invoiceRepo    repository.InvoiceRepository
	saleRepo       repository.SaleRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewInvoiceWorker(
	invoiceRepo repository.InvoiceRepository,
	saleRepo repository.SaleRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
) *InvoiceWorker {
	return &InvoiceWorker{
		invoiceRepo:    invoiceRepo,
		saleRepo:       saleRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single invoice job:
//  1. Parse InvoiceJobPayload from the job envelope
//  2. Fetch the sale (with items, payments and customer) from DB
//  3. Create an Invoice record with status "pending" and a fresh number
//  4. Render the PDF receipt with backoff (max 3 attempts)
//  5. Update the Invoice (pdf_path / status / retry bookkeeping)
//  6. Enqueue an email job when the customer has an email
func (w *InvoiceWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload InvoiceJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("invoice_worker: invalid payload")
		return
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("invoice_worker: invalid sale_id")
		return
	}

	sale, err := w.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("invoice_worker: sale not found")
		return
	}

	number, err := w.invoiceRepo.NextInvoiceNumber(ctx)
	if err != nil {
		log.Error().Err(err).Msg("invoice_worker: failed to allocate invoice number")
		return
	}

	_, due := billing.ResolveStatus(sale.TotalPrice, sale.AmountPaid)
	inv := &model.Invoice{
		SaleID:     saleID,
		Number:     number,
		TotalPrice: sale.TotalPrice,
		AmountPaid: sale.AmountPaid,
		DueAmount:  due,
		Status:     "pending",
	}
	if err := w.invoiceRepo.Create(ctx, inv); err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("invoice_worker: failed to create invoice")
		return
	}

	var pdfPath string
	renderErr := withRetry(ctx, 3, func(attempt int) error {
		path, err := infra.GenerateReceiptPDF(sale, number, w.pdfStoragePath)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("sale_id", payload.SaleID).
				Msg("invoice_worker: PDF render failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})

	if renderErr != nil {
		// Stays pending; the retry cron picks it up by next_retry_at
		inv.RetryCount++
		errMsg := renderErr.Error()
		inv.LastError = &errMsg
		nextRetry := time.Now().Add(computeRetryBackoff(inv.RetryCount))
		inv.NextRetryAt = &nextRetry
		_ = w.invoiceRepo.Update(ctx, inv)
		log.Error().Err(renderErr).Str("sale_id", payload.SaleID).Msg("invoice_worker: PDF failed after all attempts")
		return
	}

	inv.Status = "issued"
	inv.PDFPath = &pdfPath
	inv.NextRetryAt = nil
	inv.LastError = nil
	if err := w.invoiceRepo.Update(ctx, inv); err != nil {
		log.Error().Err(err).Str("invoice_id", inv.ID.String()).Msg("invoice_worker: failed to update invoice")
		return
	}
	log.Info().Int64("number", number).Str("sale_id", payload.SaleID).Msg("invoice_worker: receipt issued")

	if sale.Customer != nil && sale.Customer.Email != nil && *sale.Customer.Email != "" {
		emailJob := EmailJobPayload{
			ToEmail: *sale.Customer.Email,
			Subject: fmt.Sprintf("DepotPOS receipt N° %d", number),
			Body: fmt.Sprintf("Please find your receipt attached.\nTotal: %s\nPaid: %s",
				billing.FormatFCFA(sale.TotalPrice), billing.FormatFCFA(sale.AmountPaid)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *sale.Customer.Email).Msg("invoice_worker: failed to enqueue email")
		}
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// computeRetryBackoff maps a retry count to the cron's wait before the next
// attempt: 1m, 2m, 4m ... capped at 30m.
func computeRetryBackoff(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	backoff := time.Duration(1<<uint(retryCount-1)) * time.Minute
	if backoff > 30*time.Minute {
		backoff = 30 * time.Minute
	}
	return backoff
}
