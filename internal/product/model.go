package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// NUMERIC(10,2) in Postgres; decimal keeps the arithmetic exact.
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	ImageURL  string          `json:"image_url,omitempty"`
	Category  string          `json:"category"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateRequest payload for POST /api/products.
// swagger:model CreateProductRequest
type CreateRequest struct {
	Name        string          `json:"name" binding:"required" example:"Mechanical Keyboard"`
	Description string          `json:"description" example:"RGB 60%"`
	Price       decimal.Decimal `json:"price" binding:"required" example:"199.90"`
	Stock       int             `json:"stock" example:"10"`
	ImageURL    string          `json:"image_url"`
	Category    string          `json:"category" binding:"required" example:"peripherals"`
}

// UpdateRequest payload for PUT /api/products/:id. Absent fields (and empty
// strings) leave the stored value untouched.
// swagger:model UpdateProductRequest
type UpdateRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	ImageURL    string           `json:"image_url"`
	Category    string           `json:"category"`
}

// ListResponse is the paginated envelope of GET /api/products.
// swagger:model
type ListResponse struct {
	Q      string    `json:"q,omitempty"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
	Items  []Product `json:"items"`
}

// HTTPError is the standard JSON error body.
// swagger:model
type HTTPError struct {
	Error string `json:"error" example:"not found"`
}
