package handler

import (
	"net/http"

	"depotpos/internal/apierror"
	"depotpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

// GetOrder godoc
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      200 {object} dto.OrderResponse
// @Failure      404 {object} apierror.APIError
// @Router       /order/{id} [get]
func (h *OrdersHandler) GetOrder(c *gin.Context) {
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

// ListOrdersByTenant godoc
// @Summary      List orders of a tenant
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        tenantId path string true "Tenant UUID"
// @Success      200 {array} dto.OrderResponse
// @Router       /order/tenant/{tenantId} [get]
func (h *OrdersHandler) ListOrdersByTenant(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid tenantId"))
		return
	}
	resp, err := h.svc.ListByTenant(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list orders"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CompleteOrder godoc
// @Summary      Mark an order completed
// @Description  Transitions PENDING to COMPLETED and decrements stock per line. COMPLETED and CANCELED are terminal.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      200 {object} dto.OrderResponse
// @Failure      400 {object} apierror.APIError
// @Router       /order/completed/{id} [patch]
func (h *OrdersHandler) CompleteOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	tenantID, ok := callerTenant(c)
	if !ok {
		return
	}
	resp, err := h.svc.Complete(c.Request.Context(), tenantID, id)
	if err != nil {
		if tenantForbidden(c, err) {
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
