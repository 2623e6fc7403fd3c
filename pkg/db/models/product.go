package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry priced per calendar year.
type Product struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductCode string         `gorm:"column:product_code;not null;uniqueIndex:uq_products_product_code"`
	Description string         `gorm:"column:description;not null"`
	Prices      []ProductPrice `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
