package handler

import (
	"errors"
	"net/http"

	"depotpos/internal/apierror"
	"depotpos/internal/billing"
	"depotpos/internal/dto"
	"depotpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// writeBillingError maps reconciliation sentinel errors onto field-level 422
// responses so clients can highlight the offending input, and everything else
// onto a plain 400.
func writeBillingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTenantMismatch):
		c.JSON(http.StatusForbidden, apierror.New("Tenant mismatch"))
	case errors.Is(err, billing.ErrInvalidAmount):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{"amount": err.Error()}))
	case errors.Is(err, billing.ErrExceedsDue):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{"amount": err.Error()}))
	case errors.Is(err, billing.ErrMissingField):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{"saleId": err.Error()}))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}

// CreateDirectSale godoc
// @Summary      Register a direct sale
// @Description  Creates a cash or credit sale ACID: decrements stock, records movements and dispatches async receipt generation.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSaleRequest true "Sale detail"
// @Success      201  {object} dto.SaleResponse
// @Failure      400  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /directeSale [post]
func (h *SalesHandler) CreateDirectSale(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if !requireBodyTenant(c, req.TenantID) {
		return
	}
	resp, err := h.svc.CreateDirectSale(c.Request.Context(), req)
	if err != nil {
		writeBillingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ApplyCreditPayment godoc
// @Summary      Apply a payment to a credit sale
// @Description  Validates the amount against the outstanding balance inside the transaction and returns the full updated sale.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "Sale UUID"
// @Param        body body dto.ApplyPaymentRequest true "Payment amount"
// @Success      200  {object} dto.SaleResponse
// @Failure      400  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /directeSale/{id}/payment [patch]
func (h *SalesHandler) ApplyCreditPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	tenantID, ok := callerTenant(c)
	if !ok {
		return
	}
	var req dto.ApplyPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ApplyCreditPayment(c.Request.Context(), tenantID, id, req)
	if err != nil {
		writeBillingError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetSale godoc
// @Summary      Get a sale
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Sale UUID"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /directeSale/{id} [get]
func (h *SalesHandler) GetSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	tenantID, ok := callerTenant(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		writeLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListSalesByTenant godoc
// @Summary      List all sales of a tenant
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        tenantId path string true "Tenant UUID"
// @Success      200 {array} dto.SaleResponse
// @Router       /directeSale/tenant/{tenantId} [get]
func (h *SalesHandler) ListSalesByTenant(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid tenantId"))
		return
	}
	resp, err := h.svc.ListByTenant(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list sales"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PaginateSales godoc
// @Summary      Paginated sale listing
// @Description  Filters by derived payment status, date and credit flag.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        tenantId path  string true  "Tenant UUID"
// @Param        page     query int    false "Page (default 1)"
// @Param        limit    query int    false "Rows per page (default 20)"
// @Param        status   query string false "UNPAID | PARTIAL | PAID | all"
// @Param        date     query string false "YYYY-MM-DD"
// @Param        credit   query string false "true = credit sales only"
// @Success      200 {object} dto.SaleListResponse
// @Router       /directeSale/paginate/tenant/{tenantId} [get]
func (h *SalesHandler) PaginateSales(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid tenantId"))
		return
	}
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Paginate(c.Request.Context(), tenantID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list sales"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
