package products

import (
	"github.com/shopspring/decimal"
)

// PriceInput is one yearly price to publish alongside a product.
type PriceInput struct {
	Year       int             `json:"year" validate:"required,gte=2000,lte=2100"`
	PricePerKG decimal.Decimal `json:"price_per_kg" validate:"required"`
}

// CreateProductInput captures a new catalog entry and its initial prices.
type CreateProductInput struct {
	ProductCode string       `json:"product_code" validate:"required,max=64"`
	Description string       `json:"description" validate:"required,max=512"`
	Prices      []PriceInput `json:"prices" validate:"omitempty,dive"`
}

// UpdateProductInput patches catalog fields.
type UpdateProductInput struct {
	ProductCode *string `json:"product_code" validate:"omitempty,max=64"`
	Description *string `json:"description" validate:"omitempty,max=512"`
}
