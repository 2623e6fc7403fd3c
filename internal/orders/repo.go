package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veldtrade/procurement-backend/pkg/db/models"
	"github.com/veldtrade/procurement-backend/pkg/enums"
	"github.com/veldtrade/procurement-backend/pkg/pagination"
)

// committedStatuses are the linked supplier order states that count toward
// committed supply. Cancelled and rejected orders commit nothing.
var committedStatuses = []enums.OrderStatus{
	enums.OrderStatusNew,
	enums.OrderStatusAcceptedBySupplier,
	enums.OrderStatusInDelivery,
	enums.OrderStatusDelivered,
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreatePurchaseOrder(ctx context.Context, order *models.PurchaseOrder) (*models.PurchaseOrder, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.PurchaseOrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderDetail(ctx context.Context, orderID uuid.UUID) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Distributor").
		Preload("Creator").
		Preload("LinkedOrder").
		Preload("LinkedFrom").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.Product").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderItem(ctx context.Context, itemID uuid.UUID) (*models.PurchaseOrderItem, error) {
	var item models.PurchaseOrderItem
	err := r.db.WithContext(ctx).
		Where("id = ?", itemID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.PurchaseOrderItem, error) {
	var items []models.PurchaseOrderItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindLinkedSupplierItems(ctx context.Context, distributorOrderID uuid.UUID) ([]models.PurchaseOrderItem, error) {
	var items []models.PurchaseOrderItem
	err := r.db.WithContext(ctx).
		Joins("JOIN purchase_orders ON purchase_orders.id = purchase_order_items.order_id").
		Where("purchase_orders.linked_order_id = ?", distributorOrderID).
		Where("purchase_orders.category = ?", enums.OrderCategorySupplier).
		Where("purchase_orders.status IN ?", committedStatuses).
		Order("purchase_order_items.created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) HighestOrderNumber(ctx context.Context, prefix string) (string, error) {
	var number string
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Select("po_number").
		Where("po_number LIKE ?", prefix+"-%").
		Order("po_number DESC").
		Limit(1).
		Scan(&number).Error
	if err != nil {
		return "", err
	}
	return number, nil
}

func (r *repository) ListOrders(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Preload("Supplier").
		Preload("Distributor").
		Preload("Items")

	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filters.SupplierID)
	}
	if filters.DistributorID != nil {
		query = query.Where("distributor_id = ?", *filters.DistributorID)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	if filters.Query != "" {
		query = query.Where("po_number LIKE ?", "%"+filters.Query+"%")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.PurchaseOrder
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	list := &OrderList{Orders: make([]OrderSummary, 0, len(rows)), NextCursor: nextCursor}
	for i := range rows {
		list.Orders = append(list.Orders, summarize(&rows[i]))
	}
	return list, nil
}

func summarize(order *models.PurchaseOrder) OrderSummary {
	counterparty := ""
	if order.Supplier != nil {
		counterparty = order.Supplier.BusinessName
	}
	if order.Distributor != nil {
		counterparty = order.Distributor.BusinessName
	}
	return OrderSummary{
		ID:                   order.ID,
		PONumber:             order.PONumber,
		Category:             order.Category,
		Status:               order.Status,
		StatusDisplay:        order.Status.DisplayName(),
		CounterpartyName:     counterparty,
		TotalValue:           order.TotalValue,
		ItemCount:            len(order.Items),
		RequiredDeliveryDate: order.RequiredDeliveryDate,
		CreatedAt:            order.CreatedAt,
	}
}

func (r *repository) FindActiveOrdersDueBetween(ctx context.Context, from, to time.Time) ([]models.PurchaseOrder, error) {
	var rows []models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Distributor").
		Preload("Items").
		Preload("Items.Product").
		Where("status NOT IN ?", []enums.OrderStatus{
			enums.OrderStatusDelivered,
			enums.OrderStatusCancelled,
			enums.OrderStatusRejectedBySupplier,
			enums.OrderStatusRejectedByDistributor,
		}).
		Where("required_delivery_date IS NOT NULL").
		Where("required_delivery_date >= ? AND required_delivery_date <= ?", from, to).
		Order("required_delivery_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

func (r *repository) UpdateOrderItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.PurchaseOrderItem{}).
		Where("id = ?", itemID).
		Updates(updates).Error
}

func (r *repository) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", orderID).
		Delete(&models.PurchaseOrder{}).Error
}

func (r *repository) DeleteOrderItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&models.PurchaseOrderItem{}).Error
}
