package dto

// DeliveryLineRequest carries the delivered/returned counts entered for one
// line. Negative values and over-allocation are rejected by the
// reconciliation validator before any write happens.
type DeliveryLineRequest struct {
	ProductID         string `json:"productId" validate:"required,uuid"`
	DeliveredQuantity int    `json:"deliveredQuantity"`
	ReturnedQuantity  int    `json:"returnedQuantity"`
}

// UpdateDeliveryRequest is the body of PATCH /delivery/:id.
type UpdateDeliveryRequest struct {
	DeliveryPersonID *string               `json:"deliveryPersonId" validate:"omitempty,uuid"`
	Status           string                `json:"status"           validate:"required,oneof=PENDING IN_PROGRESS VALIDATED"`
	DeliveryProducts []DeliveryLineRequest `json:"deliveryProducts" validate:"required,min=1,dive"`
}

type DeliveryLineResponse struct {
	ProductID         string `json:"productId"`
	ProductName       string `json:"productName"`
	Quantity          int    `json:"quantity"`
	DeliveredQuantity int    `json:"deliveredQuantity"`
	ReturnedQuantity  int    `json:"returnedQuantity"`
	Status            string `json:"status"` // derived per line
}

type DeliveryResponse struct {
	ID               string                 `json:"id"`
	OrderID          *string                `json:"orderId"`
	DeliveryPersonID *string                `json:"deliveryPersonId"`
	TenantID         string                 `json:"tenantId"`
	Status           string                 `json:"status"`
	Lines            []DeliveryLineResponse `json:"deliveryProducts"`
	CreatedAt        string                 `json:"createdAt"`
	UpdatedAt        string                 `json:"updatedAt"`
}
