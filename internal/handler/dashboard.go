package handler

import (
	"net/http"

	"depotpos/internal/apierror"
	"depotpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// DailySummary godoc
// @Summary      Daily sales summary for a tenant
// @Description  Revenue, collected amount, outstanding credit and payment-status counts, all computed as SQL aggregates.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        tenantId path  string true  "Tenant UUID"
// @Param        date     query string false "YYYY-MM-DD (default: today)"
// @Success      200 {object} dto.DashboardResponse
// @Router       /dashboard/tenant/{tenantId} [get]
func (h *DashboardHandler) DailySummary(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid tenantId"))
		return
	}
	resp, err := h.svc.DailySummary(c.Request.Context(), tenantID, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to compute summary"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
