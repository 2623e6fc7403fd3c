package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veldtrade/procurement-backend/pkg/db/models"
	"github.com/veldtrade/procurement-backend/pkg/pagination"
)

// Repository defines persistence operations for purchase order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePurchaseOrder(ctx context.Context, order *models.PurchaseOrder) (*models.PurchaseOrder, error)
	CreateOrderItems(ctx context.Context, items []models.PurchaseOrderItem) error
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.PurchaseOrder, error)
	FindOrderDetail(ctx context.Context, orderID uuid.UUID) (*models.PurchaseOrder, error)
	FindOrderItem(ctx context.Context, itemID uuid.UUID) (*models.PurchaseOrderItem, error)
	FindItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.PurchaseOrderItem, error)
	FindLinkedSupplierItems(ctx context.Context, distributorOrderID uuid.UUID) ([]models.PurchaseOrderItem, error)
	HighestOrderNumber(ctx context.Context, prefix string) (string, error)
	ListOrders(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error)
	FindActiveOrdersDueBetween(ctx context.Context, from, to time.Time) ([]models.PurchaseOrder, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	UpdateOrderItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
	DeleteOrderItem(ctx context.Context, itemID uuid.UUID) error
}
