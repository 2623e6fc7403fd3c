package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veldtrade/procurement-backend/pkg/enums"
)

// PurchaseOrder is the aggregate root for both distributor (POD) and
// supplier (POS) orders. Exactly one counterparty reference is set,
// matching the category. TotalValue is always the sum of the items'
// values; every item mutation recomputes it in the same transaction.
type PurchaseOrder struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PONumber             string              `gorm:"column:po_number;not null;uniqueIndex:uq_purchase_orders_po_number"`
	Category             enums.OrderCategory `gorm:"column:category;type:text;not null"`
	SupplierID           *uuid.UUID          `gorm:"column:supplier_id;type:uuid"`
	DistributorID        *uuid.UUID          `gorm:"column:distributor_id;type:uuid"`
	Status               enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'new'"`
	LinkedOrderID        *uuid.UUID          `gorm:"column:linked_order_id;type:uuid"`
	CreatedBy            uuid.UUID           `gorm:"column:created_by;type:uuid;not null"`
	Notes                *string             `gorm:"column:notes"`
	RequiredDeliveryDate *time.Time          `gorm:"column:required_delivery_date"`
	TotalValue           decimal.Decimal     `gorm:"column:total_value;type:numeric(12,2);not null;default:0"`
	Supplier             *Supplier           `gorm:"foreignKey:SupplierID"`
	Distributor          *Distributor        `gorm:"foreignKey:DistributorID"`
	LinkedOrder          *PurchaseOrder      `gorm:"foreignKey:LinkedOrderID"`
	LinkedFrom           []PurchaseOrder     `gorm:"foreignKey:LinkedOrderID"`
	Creator              *User               `gorm:"foreignKey:CreatedBy"`
	Items                []PurchaseOrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// IsDistributorOrder reports whether this is a POD.
func (p *PurchaseOrder) IsDistributorOrder() bool {
	return p.Category == enums.OrderCategoryDistributor
}

// IsSupplierOrder reports whether this is a POS.
func (p *PurchaseOrder) IsSupplierOrder() bool {
	return p.Category == enums.OrderCategorySupplier
}
