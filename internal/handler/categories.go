package handler

import (
	"net/http"

	"depotpos/internal/apierror"
	"depotpos/internal/dto"
	"depotpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoriesHandler struct{ svc service.CategoryService }

func NewCategoriesHandler(svc service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

// CreateCategory godoc
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCategoryRequest true "Category"
// @Success      201  {object} dto.CategoryResponse
// @Failure      400  {object} apierror.APIError
// @Router       /category [post]
func (h *CategoriesHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if !requireBodyTenant(c, req.TenantID) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListCategoriesByTenant godoc
// @Summary      List active categories of a tenant
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        tenantId path string true "Tenant UUID"
// @Success      200 {array} dto.CategoryResponse
// @Router       /category/tenant/{tenantId} [get]
func (h *CategoriesHandler) ListCategoriesByTenant(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid tenantId"))
		return
	}
	resp, err := h.svc.ListByTenant(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list categories"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteCategory godoc
// @Summary      Deactivate a category
// @Tags         categories
// @Security     BearerAuth
// @Param        id path string true "Category UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /category/{id} [delete]
func (h *CategoriesHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	tenantID, ok := callerTenant(c)
	if !ok {
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), tenantID, id); err != nil {
		writeLookupError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
