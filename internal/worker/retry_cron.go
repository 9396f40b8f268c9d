package worker

// retry_cron.go
// Background goroutine that periodically re-attempts PDF generation for
// invoices stuck in status='pending' with a next_retry_at in the past.

import (
	"context"
	"fmt"
	"time"

	"depotpos/internal/infra"
	"depotpos/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	InvoiceRepo    repository.InvoiceRepository
	SaleRepo       repository.SaleRepository
	RDB            *redis.Client
	PDFStoragePath string
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries pending invoices and re-attempts the PDF render. It respects the
// context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	now := time.Now()
	invoices, err := cfg.InvoiceRepo.ListPendingRetries(ctx, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}

	if len(invoices) == 0 {
		return
	}

	log.Info().Int("count", len(invoices)).Msg("retry_cron: processing pending invoices")

	for i := range invoices {
		inv := &invoices[i]

		sale, err := cfg.SaleRepo.FindByID(ctx, inv.SaleID)
		if err != nil {
			log.Error().Err(err).Str("invoice_id", inv.ID.String()).Msg("retry_cron: sale not found")
			continue
		}

		pdfPath, renderErr := infra.GenerateReceiptPDF(sale, inv.Number, cfg.PDFStoragePath)
		if renderErr != nil {
			inv.RetryCount++
			errMsg := renderErr.Error()
			inv.LastError = &errMsg
			nextRetry := time.Now().Add(computeRetryBackoff(inv.RetryCount))
			inv.NextRetryAt = &nextRetry

			if inv.RetryCount >= MaxInvoiceRetries {
				inv.Status = "error"
				inv.NextRetryAt = nil
				log.Error().
					Str("invoice_id", inv.ID.String()).
					Str("sale_id", inv.SaleID.String()).
					Int("retries", inv.RetryCount).
					Msg("retry_cron: max retries exceeded, moving to error/DLQ")

				payload := fmt.Sprintf(`{"sale_id":"%s","invoice_id":"%s"}`, inv.SaleID, inv.ID)
				SendToDLQ(ctx, cfg.RDB, QueueInvoice, "invoice", []byte(payload),
					fmt.Sprintf("max retries (%d) exceeded: %s", MaxInvoiceRetries, errMsg),
					inv.RetryCount)
			} else {
				log.Warn().
					Str("invoice_id", inv.ID.String()).
					Int("retry_count", inv.RetryCount).
					Time("next_retry_at", *inv.NextRetryAt).
					Msg("retry_cron: PDF retry failed, scheduled next attempt")
			}

			_ = cfg.InvoiceRepo.Update(ctx, inv)
			continue
		}

		inv.Status = "issued"
		inv.PDFPath = &pdfPath
		inv.NextRetryAt = nil
		inv.LastError = nil
		_ = cfg.InvoiceRepo.Update(ctx, inv)

		log.Info().
			Str("invoice_id", inv.ID.String()).
			Int("total_retries", inv.RetryCount).
			Msg("retry_cron: receipt issued after retry")
	}
}
