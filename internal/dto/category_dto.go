package dto

type CreateCategoryRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	TenantID string `json:"tenantId" validate:"required,uuid"`
}

type CategoryResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	TenantID string `json:"tenantId"`
	Active   bool   `json:"active"`
}
