package handler

import (
	"net/http"

	"depotpos/internal/apierror"
	"depotpos/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoicesHandler reads invoice records directly from the repository —
// receipts are write-once artifacts of the worker pipeline, there is no
// business logic to wrap in a service. Invoices carry no tenant column, so
// tenant checks go through the owning sale.
type InvoicesHandler struct {
	repo  repository.InvoiceRepository
	sales repository.SaleRepository
}

func NewInvoicesHandler(repo repository.InvoiceRepository, sales repository.SaleRepository) *InvoicesHandler {
	return &InvoicesHandler{repo: repo, sales: sales}
}

// saleInTenant verifies the sale behind an invoice belongs to the caller's
// tenant. Writes the error response and returns false otherwise.
func (h *InvoicesHandler) saleInTenant(c *gin.Context, saleID uuid.UUID) bool {
	tenantID, ok := callerTenant(c)
	if !ok {
		return false
	}
	sale, err := h.sales.FindByID(c.Request.Context(), saleID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Sale not found"))
		return false
	}
	if sale.TenantID != tenantID {
		c.JSON(http.StatusForbidden, apierror.New("Tenant mismatch"))
		return false
	}
	return true
}

// ListBySale godoc
// @Summary      List receipts generated for a sale
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        saleId path string true "Sale UUID"
// @Success      200 {array} model.Invoice
// @Failure      403 {object} apierror.APIError
// @Router       /invoice/sale/{saleId} [get]
func (h *InvoicesHandler) ListBySale(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("saleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid saleId"))
		return
	}
	if !h.saleInTenant(c, saleID) {
		return
	}
	invoices, err := h.repo.FindBySaleID(c.Request.Context(), saleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list invoices"))
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// GetPDF godoc
// @Summary      Download the receipt PDF
// @Tags         invoices
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "Invoice UUID"
// @Success      200 {file} binary
// @Failure      403 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /invoice/{id}/pdf [get]
func (h *InvoicesHandler) GetPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	inv, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Invoice not found"))
		return
	}
	if !h.saleInTenant(c, inv.SaleID) {
		return
	}
	if inv.PDFPath == nil || inv.Status != "issued" {
		c.JSON(http.StatusNotFound, apierror.New("Receipt not generated yet"))
		return
	}
	c.File(*inv.PDFPath)
}
