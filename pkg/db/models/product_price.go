package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductPrice is the price per kilogram for one product in one calendar
// year. A product has at most one price row per year.
type ProductPrice struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uq_product_prices_product_year"`
	Year       int             `gorm:"column:year;not null;uniqueIndex:uq_product_prices_product_year"`
	PricePerKG decimal.Decimal `gorm:"column:price_per_kg;type:numeric(10,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
