package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veldtrade/procurement-backend/pkg/enums"
)

// PurchaseOrderItem is one product line within a purchase order. UnitPrice
// is a snapshot captured at order creation and never re-resolved; TotalValue
// is quantity times unit price. Delivery fields stay null until the first
// delivery report.
type PurchaseOrderItem struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID              uuid.UUID           `gorm:"column:order_id;type:uuid;not null"`
	ProductID            uuid.UUID           `gorm:"column:product_id;type:uuid;not null"`
	QuantityKG           decimal.Decimal     `gorm:"column:quantity_kg;type:numeric(10,2);not null"`
	RequiredDeliveryDate time.Time           `gorm:"column:required_delivery_date;not null"`
	UnitPrice            decimal.Decimal     `gorm:"column:unit_price;type:numeric(10,2);not null"`
	TotalValue           decimal.Decimal     `gorm:"column:total_value;type:numeric(12,2);not null"`
	DeliveredQuantityKG  *decimal.Decimal    `gorm:"column:delivered_quantity_kg;type:numeric(10,2)"`
	ActualDeliveryDate   *time.Time          `gorm:"column:actual_delivery_date"`
	QualityStatus        enums.QualityStatus `gorm:"column:quality_status;type:text;not null;default:'pending'"`
	QualityNotes         *string             `gorm:"column:quality_notes"`
	Product              *Product            `gorm:"foreignKey:ProductID"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
