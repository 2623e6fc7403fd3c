package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veldtrade/procurement-backend/pkg/db/models"
	"github.com/veldtrade/procurement-backend/pkg/enums"
)

// CreateOrderItemInput is one requested product line. UnitPrice overrides
// catalog price resolution when set.
type CreateOrderItemInput struct {
	ProductID            uuid.UUID
	QuantityKG           decimal.Decimal
	RequiredDeliveryDate time.Time
	UnitPrice            *decimal.Decimal
}

// CreateOrderInput captures everything required to open a purchase order.
type CreateOrderInput struct {
	Category             enums.OrderCategory
	SupplierID           *uuid.UUID
	DistributorID        *uuid.UUID
	LinkedOrderID        *uuid.UUID
	CreatedBy            uuid.UUID
	Notes                *string
	RequiredDeliveryDate *time.Time
	Items                []CreateOrderItemInput
}

// UpdateOrderInput patches non-lifecycle order fields.
type UpdateOrderInput struct {
	Notes                *string
	RequiredDeliveryDate *time.Time
}

// StatusUpdateInput requests a lifecycle transition.
type StatusUpdateInput struct {
	OrderID   uuid.UUID
	Status    enums.OrderStatus
	ActorRole string
}

// DeliveryUpdateInput records delivery progress against one line item.
type DeliveryUpdateInput struct {
	OrderID             uuid.UUID
	ItemID              uuid.UUID
	DeliveredQuantityKG decimal.Decimal
	ActualDeliveryDate  *time.Time
	QualityStatus       *enums.QualityStatus
	QualityNotes        *string
}

// OrderFilters describe the inputs supported by the order list.
type OrderFilters struct {
	Category      *enums.OrderCategory
	Status        *enums.OrderStatus
	SupplierID    *uuid.UUID
	DistributorID *uuid.UUID
	DateFrom      *time.Time
	DateTo        *time.Time
	Query         string
}

// OrderSummary exposes the aggregated fields returned in the order list.
type OrderSummary struct {
	ID                   uuid.UUID           `json:"id"`
	PONumber             string              `json:"po_number"`
	Category             enums.OrderCategory `json:"category"`
	Status               enums.OrderStatus   `json:"status"`
	StatusDisplay        string              `json:"status_display"`
	CounterpartyName     string              `json:"counterparty_name"`
	TotalValue           decimal.Decimal     `json:"total_value"`
	ItemCount            int                 `json:"item_count"`
	RequiredDeliveryDate *time.Time          `json:"required_delivery_date,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// LineItemView decorates a stored line item with its derived delivery facts.
type LineItemView struct {
	models.PurchaseOrderItem
	DeliveryState enums.DeliveryState `json:"delivery_state"`
	ShortfallKG   decimal.Decimal     `json:"shortfall_kg"`
	Overdue       bool                `json:"overdue"`
	DaysUntilDue  int                 `json:"days_until_due"`
}

// OrderDetail is the full read model for a single order.
type OrderDetail struct {
	Order          *models.PurchaseOrder `json:"order"`
	StatusDisplay  string                `json:"status_display"`
	CanBeCancelled bool                  `json:"can_be_cancelled"`
	Items          []LineItemView        `json:"items"`
	Fulfillment    *FulfillmentReport    `json:"fulfillment,omitempty"`
}

// ProductFulfillment is the reconciliation outcome for one product line
// of a distributor order.
type ProductFulfillment struct {
	ProductID             uuid.UUID       `json:"product_id"`
	ProductCode           string          `json:"product_code"`
	ProductDescription    string          `json:"product_description"`
	RequestedQuantity     decimal.Decimal `json:"requested_quantity"`
	CommittedQuantity     decimal.Decimal `json:"committed_quantity"`
	DeliveredQuantity     decimal.Decimal `json:"delivered_quantity"`
	ShortageQuantity      decimal.Decimal `json:"shortage_quantity"`
	PendingDelivery       decimal.Decimal `json:"pending_delivery"`
	FulfillmentPercentage decimal.Decimal `json:"fulfillment_percentage"`
	DeliveryPercentage    decimal.Decimal `json:"delivery_percentage"`
}

// FulfillmentReport compares a distributor order's demand with the supply
// committed and delivered through its linked supplier orders.
type FulfillmentReport struct {
	OrderID            uuid.UUID            `json:"order_id"`
	PONumber           string               `json:"po_number"`
	Products           []ProductFulfillment `json:"products"`
	IsFullyCommitted   bool                 `json:"is_fully_committed"`
	HasShortages       bool                 `json:"has_shortages"`
	TotalShortageValue decimal.Decimal      `json:"total_shortage_value"`
}

// ForecastBucket aggregates active orders due within one calendar month.
type ForecastBucket struct {
	Month      string          `json:"month"`
	OrderCount int             `json:"order_count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// ForecastOrder is one pipeline order. Distributor orders carry their
// fulfillment analysis against linked supplier orders.
type ForecastOrder struct {
	OrderSummary
	Fulfillment *FulfillmentReport `json:"fulfillment_analysis,omitempty"`
}

// ForecastSummary totals the pipeline by order category.
type ForecastSummary struct {
	TotalPODOrders      int             `json:"total_pod_orders"`
	TotalPOSOrders      int             `json:"total_pos_orders"`
	OrdersWithShortages int             `json:"orders_with_shortages"`
	TotalPODValue       decimal.Decimal `json:"total_pod_value"`
	TotalPOSValue       decimal.Decimal `json:"total_pos_value"`
}

// PipelineForecast is the delivery pipeline over the requested horizon.
type PipelineForecast struct {
	Months            int              `json:"months"`
	From              time.Time        `json:"from"`
	To                time.Time        `json:"to"`
	DistributorOrders []ForecastOrder  `json:"distributor_orders"`
	SupplierOrders    []OrderSummary   `json:"supplier_orders"`
	Buckets           []ForecastBucket `json:"buckets"`
	Summary           ForecastSummary  `json:"summary"`
}

// CancelOutcome reports how a cancellation request was resolved.
type CancelOutcome string

const (
	CancelOutcomeDeleted   CancelOutcome = "deleted"
	CancelOutcomeCancelled CancelOutcome = "cancelled"
)
