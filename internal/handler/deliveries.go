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

type DeliveriesHandler struct{ svc service.DeliveryService }

func NewDeliveriesHandler(svc service.DeliveryService) *DeliveriesHandler {
	return &DeliveriesHandler{svc: svc}
}

// GetDelivery godoc
// @Summary      Get a delivery with its lines
// @Description  Per-line statuses are derived from quantity/delivered/returned on every read.
// @Tags         deliveries
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Delivery UUID"
// @Success      200 {object} dto.DeliveryResponse
// @Failure      404 {object} apierror.APIError
// @Router       /delivery/deliverie/{id} [get]
func (h *DeliveriesHandler) GetDelivery(c *gin.Context) {
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

// ListDeliveriesByTenant godoc
// @Summary      List deliveries of a tenant
// @Tags         deliveries
// @Produce      json
// @Security     BearerAuth
// @Param        tenantId path string true "Tenant UUID"
// @Success      200 {array} dto.DeliveryResponse
// @Router       /delivery/tenant/{tenantId} [get]
func (h *DeliveriesHandler) ListDeliveriesByTenant(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid tenantId"))
		return
	}
	resp, err := h.svc.ListByTenant(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list deliveries"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateDelivery godoc
// @Summary      Update delivery lines and status
// @Description  All-or-nothing: every line is validated before any write. Returned quantities restock in the same transaction.
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "Delivery UUID"
// @Param        body body dto.UpdateDeliveryRequest true "Lines and status"
// @Success      200  {object} dto.DeliveryResponse
// @Failure      400  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /delivery/{id} [patch]
func (h *DeliveriesHandler) UpdateDelivery(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	tenantID, ok := callerTenant(c)
	if !ok {
		return
	}
	var req dto.UpdateDeliveryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTenantMismatch):
			c.JSON(http.StatusForbidden, apierror.New("Tenant mismatch"))
		case errors.Is(err, billing.ErrNegativeQuantity), errors.Is(err, billing.ErrOverAllocation):
			c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{"deliveryProducts": err.Error()}))
		default:
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}
