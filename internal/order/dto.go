package order

// CreateOrderItem is one requested line of a new order.
// swagger:model CreateOrderItem
type CreateOrderItem struct {
	ProductID string `json:"product_id" binding:"required" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity  int    `json:"quantity" binding:"required,min=1" example:"2"`
}

// CreateOrderRequest is the POST /api/orders payload. The owning user comes
// from the bearer token, not the body.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	Items []CreateOrderItem `json:"items"`
}

// UpdateStatusRequest is the PUT /api/orders/:id/status payload.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"processing"`
}
