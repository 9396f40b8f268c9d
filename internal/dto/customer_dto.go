package dto

type CreateCustomerRequest struct {
	Name     string  `json:"name"     validate:"required,min=1,max=150"`
	Phone    string  `json:"phone"    validate:"required,min=6,max=30"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	TenantID string  `json:"tenantId" validate:"required,uuid"`
}

type UpdateCustomerRequest struct {
	Name  string  `json:"name"  validate:"omitempty,min=1,max=150"`
	Phone string  `json:"phone" validate:"omitempty,min=6,max=30"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type CustomerResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Email    *string `json:"email"`
	TenantID string  `json:"tenantId"`
	Active   bool    `json:"active"`
}
