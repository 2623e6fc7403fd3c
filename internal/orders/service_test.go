package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/veldtrade/procurement-backend/pkg/db/models"
	"github.com/veldtrade/procurement-backend/pkg/enums"
	pkgerrors "github.com/veldtrade/procurement-backend/pkg/errors"
	"github.com/veldtrade/procurement-backend/pkg/metrics"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT,
  email TEXT,
  role TEXT,
  is_active INTEGER DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS suppliers (
  id TEXT PRIMARY KEY,
  business_name TEXT,
  registered_address TEXT,
  country TEXT,
  vat_number TEXT,
  primary_sales_contact_name TEXT,
  primary_sales_contact_email TEXT,
  primary_sales_contact_telephone TEXT,
  primary_logistics_contact_name TEXT,
  primary_logistics_contact_email TEXT,
  primary_logistics_contact_telephone TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS distributors (
  id TEXT PRIMARY KEY,
  business_name TEXT,
  registered_address TEXT,
  country TEXT,
  vat_number TEXT,
  primary_sales_contact_name TEXT,
  primary_sales_contact_email TEXT,
  primary_sales_contact_telephone TEXT,
  primary_logistics_contact_name TEXT,
  primary_logistics_contact_email TEXT,
  primary_logistics_contact_telephone TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  product_code TEXT UNIQUE,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_prices (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  year INTEGER NOT NULL,
  price_per_kg NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (product_id, year)
);`,
		`CREATE TABLE IF NOT EXISTS purchase_orders (
  id TEXT PRIMARY KEY,
  po_number TEXT NOT NULL,
  category TEXT NOT NULL,
  supplier_id TEXT,
  distributor_id TEXT,
  status TEXT NOT NULL DEFAULT 'new',
  linked_order_id TEXT,
  created_by TEXT NOT NULL,
  notes TEXT,
  required_delivery_date DATETIME,
  total_value NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT uq_purchase_orders_po_number UNIQUE (po_number)
);`,
		`CREATE TABLE IF NOT EXISTS purchase_order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity_kg NUMERIC NOT NULL,
  required_delivery_date DATETIME NOT NULL,
  unit_price NUMERIC NOT NULL,
  total_value NUMERIC NOT NULL,
  delivered_quantity_kg NUMERIC,
  actual_delivery_date DATETIME,
  quality_status TEXT NOT NULL DEFAULT 'pending',
  quality_notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

type stubPrices struct {
	prices map[uuid.UUID]decimal.Decimal
}

func (s *stubPrices) UnitPriceFor(_ context.Context, _ *gorm.DB, productID uuid.UUID, _ int) (decimal.Decimal, error) {
	price, ok := s.prices[productID]
	if !ok {
		return decimal.Zero, gorm.ErrRecordNotFound
	}
	return price, nil
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db}, &stubPrices{}, metrics.NewOrderMetrics(nil), nil)
	require.NoError(t, err)
	return svc
}

func newProduct(t *testing.T, db *gorm.DB, code string) *models.Product {
	t.Helper()
	product := &models.Product{ID: uuid.New(), ProductCode: code, Description: code + " description"}
	require.NoError(t, db.Create(product).Error)
	return product
}

func idPtr(id uuid.UUID) *uuid.UUID { return &id }

func distributorOrderInput(t *testing.T, productID uuid.UUID, qty, unitPrice string) CreateOrderInput {
	t.Helper()
	price := dec(t, unitPrice)
	return CreateOrderInput{
		Category:      enums.OrderCategoryDistributor,
		DistributorID: idPtr(uuid.New()),
		CreatedBy:     uuid.New(),
		Items: []CreateOrderItemInput{{
			ProductID:            productID,
			QuantityKG:           dec(t, qty),
			RequiredDeliveryDate: time.Now().AddDate(0, 2, 0),
			UnitPrice:            &price,
		}},
	}
}

func supplierOrderInput(t *testing.T, productID uuid.UUID, qty, unitPrice string, linkedTo *uuid.UUID) CreateOrderInput {
	t.Helper()
	price := dec(t, unitPrice)
	return CreateOrderInput{
		Category:      enums.OrderCategorySupplier,
		SupplierID:    idPtr(uuid.New()),
		LinkedOrderID: linkedTo,
		CreatedBy:     uuid.New(),
		Items: []CreateOrderItemInput{{
			ProductID:            productID,
			QuantityKG:           dec(t, qty),
			RequiredDeliveryDate: time.Now().AddDate(0, 1, 0),
			UnitPrice:            &price,
		}},
	}
}

func TestCreateOrderSequencesPerCategory(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	product := newProduct(t, db, "OLV-EV-500")

	pod1, err := svc.CreateOrder(ctx, distributorOrderInput(t, product.ID, "100", "2.50"))
	require.NoError(t, err)
	assert.Equal(t, "POD-00001", pod1.PONumber)

	pos1, err := svc.CreateOrder(ctx, supplierOrderInput(t, product.ID, "100", "2.10", nil))
	require.NoError(t, err)
	assert.Equal(t, "POS-00001", pos1.PONumber)

	pod2, err := svc.CreateOrder(ctx, distributorOrderInput(t, product.ID, "50", "2.50"))
	require.NoError(t, err)
	assert.Equal(t, "POD-00002", pod2.PONumber)
}

func TestCreateOrderComputesTotal(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	productA := newProduct(t, db, "OLV-EV-500")
	productB := newProduct(t, db, "OLV-POM-1000")

	priceA := dec(t, "2.50")
	priceB := dec(t, "4.00")
	input := CreateOrderInput{
		Category:      enums.OrderCategoryDistributor,
		DistributorID: idPtr(uuid.New()),
		CreatedBy:     uuid.New(),
		Items: []CreateOrderItemInput{
			{ProductID: productA.ID, QuantityKG: dec(t, "100"), RequiredDeliveryDate: time.Now().AddDate(0, 2, 0), UnitPrice: &priceA},
			{ProductID: productB.ID, QuantityKG: dec(t, "50"), RequiredDeliveryDate: time.Now().AddDate(0, 2, 0), UnitPrice: &priceB},
		},
	}

	order, err := svc.CreateOrder(ctx, input)
	require.NoError(t, err)
	assert.True(t, order.TotalValue.Equal(dec(t, "450")), "got total %s", order.TotalValue)
	require.Len(t, order.Items, 2)
	assert.True(t, order.Items[0].TotalValue.Equal(dec(t, "250")))
	assert.True(t, order.Items[1].TotalValue.Equal(dec(t, "200")))

	var stored models.PurchaseOrder
	require.NoError(t, db.Where("id = ?", order.ID).First(&stored).Error)
	assert.True(t, stored.TotalValue.Equal(dec(t, "450")))
}

func TestCreateOrderResolvesCatalogPrice(t *testing.T) {
	db := setupOrdersTestDB(t)
	product := newProduct(t, db, "OLV-EV-500")
	prices := &stubPrices{prices: map[uuid.UUID]decimal.Decimal{product.ID: dec(t, "3.20")}}
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db}, prices, metrics.NewOrderMetrics(nil), nil)
	require.NoError(t, err)

	input := distributorOrderInput(t, product.ID, "10", "0")
	input.Items[0].UnitPrice = nil

	order, err := svc.CreateOrder(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, order.Items[0].UnitPrice.Equal(dec(t, "3.20")))
	assert.True(t, order.TotalValue.Equal(dec(t, "32")))
}

func TestCreateOrderNoPriceForProduct(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	product := newProduct(t, db, "OLV-EV-500")

	input := distributorOrderInput(t, product.ID, "10", "0")
	input.Items[0].UnitPrice = nil

	_, err := svc.CreateOrder(context.Background(), input)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateOrderCounterpartyMustMatchCategory(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	product := newProduct(t, db, "OLV-EV-500")

	input := distributorOrderInput(t, product.ID, "10", "2.00")
	input.DistributorID = nil
	input.SupplierID = idPtr(uuid.New())

	_, err := svc.CreateOrder(context.Background(), input)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConsistency, typed.Code())
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	input := CreateOrderInput{
		Category:      enums.OrderCategoryDistributor,
		DistributorID: idPtr(uuid.New()),
		CreatedBy:     uuid.New(),
	}

	_, err := svc.CreateOrder(context.Background(), input)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateOrderLinkMustTargetDistributorOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	product := newProduct(t, db, "OLV-EV-500")

	pos, err := svc.CreateOrder(ctx, supplierOrderInput(t, product.ID, "100", "2.10", nil))
	require.NoError(t, err)

	_, err = svc.CreateOrder(ctx, supplierOrderInput(t, product.ID, "100", "2.10", idPtr(pos.ID)))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConsistency, typed.Code())

	// distributor orders never link outward
	podInput := distributorOrderInput(t, product.ID, "100", "2.50")
	podInput.LinkedOrderID = idPtr(pos.ID)
	_, err = svc.CreateOrder(ctx, podInput)
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConsistency, typed.Code())
}

// staleSequenceRepo always reports an empty sequence, forcing the service to
// mint a number that is already taken on the second create.
type staleSequenceRepo struct {
	Repository
}

func (s *staleSequenceRepo) WithTx(tx *gorm.DB) Repository {
	return &staleSequenceRepo{Repository: s.Repository.WithTx(tx)}
}

func (s *staleSequenceRepo) HighestOrderNumber(ctx context.Context, prefix string) (string, error) {
	return "", nil
}

func TestCreateOrderSequenceCollision(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := &staleSequenceRepo{Repository: NewRepository(db)}
	svc, err := NewService(repo, gormTxRunner{db: db}, &stubPrices{}, metrics.NewOrderMetrics(nil), nil)
	require.NoError(t, err)
	ctx := context.Background()
	product := newProduct(t, db, "OLV-EV-500")

	_, err = svc.CreateOrder(ctx, distributorOrderInput(t, product.ID, "100", "2.50"))
	require.NoError(t, err)

	_, err = svc.CreateOrder(ctx, distributorOrderInput(t, product.ID, "50", "2.50"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeSequenceCollision, typed.Code())
	assert.True(t, pkgerrors.IsRetryable(err))
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	product := newProduct(t, db, "OLV-EV-500")

	order, err := svc.CreateOrder(ctx, distributorOrderInput(t, product.ID, "100", "2.50"))
	require.NoError(t, err)

	// skipping straight to delivered is rejected
	err = svc.UpdateStatus(ctx, StatusUpdateInput{OrderID: order.ID, Status: enums.OrderStatusDelivered})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	require.NoError(t, svc.UpdateStatus(ctx, StatusUpdateInput{OrderID: order.ID, Status: enums.OrderStatusAcceptedBySupplier}))
	require.NoError(t, svc.UpdateStatus(ctx, StatusUpdateInput{OrderID: order.ID, Status: enums.OrderStatusInDelivery}))
	require.NoError(t, svc.UpdateStatus(ctx, StatusUpdateInput{OrderID: order.ID, Status: enums.OrderStatusDelivered}))

	var stored models.PurchaseOrder
	require.NoError(t, db.Where("id = ?", order.ID).First(&stored).Error)
	assert.Equal(t, enums.OrderStatusDelivered, stored.Status)

	// terminal orders accept nothing further
	err = svc.UpdateStatus(ctx, StatusUpdateInput{OrderID: order.ID, Status: enums.OrderStatusCancelled})
	require.Error(t, err)
}

func TestUpdateStatusSameStatusIsNoOp(t *testing.T) {
	db := setupOrdersTestDB(t)
	registry := prometheus.NewRegistry()
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db}, &stubPrices{}, metrics.NewOrderMetrics(registry), nil)
	require.NoError(t, err)
	ctx := context.Background()
	product := newProduct(t, db, "OLV-EV-500")

	order, err := svc.CreateOrder(ctx, distributorOrderInput(t, product.ID, "100", "2.50"))
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, StatusUpdateInput{OrderID: order.ID, Status: enums.OrderStatusNew}))
	assert.Zero(t, transitionCount(t, registry))

	require.NoError(t, svc.UpdateStatus(ctx, StatusUpdateInput{OrderID: order.ID, Status: enums.OrderStatusAcceptedBySupplier}))
	assert.Equal(t, 1.0, transitionCount(t, registry))

	// repeating the reached status records nothing further
	require.NoError(t, svc.UpdateStatus(ctx, StatusUpdateInput{OrderID: order.ID, Status: enums.OrderStatusAcceptedBySupplier}))
	assert.Equal(t, 1.0, transitionCount(t, registry))
}

func transitionCount(t *testing.T, registry *prometheus.Registry) float64 {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)
	total := 0.0
	for _, family := range families {
		if family.GetName() != "purchase_order_status_transitions_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func TestCancelOrDelete(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	product := newProduct(t, db, "OLV-EV-500")

	// new orders are removed outright
	fresh, err := svc.CreateOrder(ctx, distributorOrderInput(t, product.ID, "100", "2.50"))
	require.NoError(t, err)
	outcome, err := svc.CancelOrDelete(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, CancelOutcomeDeleted, outcome)
	var count int64
	require.NoError(t, db.Model(&models.PurchaseOrder{}).Where("id = ?", fresh.ID).Count(&count).Error)
	assert.Zero(t, count)

	// accepted orders are kept as cancelled history
	accepted, err := svc.CreateOrder(ctx, distributorOrderInput(t, product.ID, "100", "2.50"))
	require.NoError(t, err)
	require.NoError(t, svc.UpdateStatus(ctx, StatusUpdateInput{OrderID: accepted.ID, Status: enums.OrderStatusAcceptedBySupplier}))
	outcome, err = svc.CancelOrDelete(ctx, accepted.ID)
	require.NoError(t, err)
	assert.Equal(t, CancelOutcomeCancelled, outcome)
	var stored models.PurchaseOrder
	require.NoError(t, db.Where("id = ?", accepted.ID).First(&stored).Error)
	assert.Equal(t, enums.OrderStatusCancelled, stored.Status)

	// terminal orders cannot be cancelled
	_, err = svc.CancelOrDelete(ctx, accepted.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	can, err := svc.CanCancel(ctx, accepted.ID)
	require.NoError(t, err)
	assert.False(t, can)
}

func TestRemoveLineItemRecomputesTotal(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	productA := newProduct(t, db, "OLV-EV-500")
	productB := newProduct(t, db, "OLV-POM-1000")

	priceA := dec(t, "2.50")
	priceB := dec(t, "4.00")
	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		Category:      enums.OrderCategoryDistributor,
		DistributorID: idPtr(uuid.New()),
		CreatedBy:     uuid.New(),
		Items: []CreateOrderItemInput{
			{ProductID: productA.ID, QuantityKG: dec(t, "100"), RequiredDeliveryDate: time.Now().AddDate(0, 2, 0), UnitPrice: &priceA},
			{ProductID: productB.ID, QuantityKG: dec(t, "50"), RequiredDeliveryDate: time.Now().AddDate(0, 2, 0), UnitPrice: &priceB},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveLineItem(ctx, order.ID, order.Items[1].ID))

	var stored models.PurchaseOrder
	require.NoError(t, db.Where("id = ?", order.ID).First(&stored).Error)
	assert.True(t, stored.TotalValue.Equal(dec(t, "250")), "got total %s", stored.TotalValue)
}

func TestUpdateLineItemDeliveryKeepsTotal(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	product := newProduct(t, db, "OLV-EV-500")

	order, err := svc.CreateOrder(ctx, distributorOrderInput(t, product.ID, "100", "2.50"))
	require.NoError(t, err)

	delivered := time.Now()
	quality := enums.QualityStatusAccepted
	require.NoError(t, svc.UpdateLineItemDelivery(ctx, DeliveryUpdateInput{
		OrderID:             order.ID,
		ItemID:              order.Items[0].ID,
		DeliveredQuantityKG: dec(t, "40"),
		ActualDeliveryDate:  &delivered,
		QualityStatus:       &quality,
	}))

	var item models.PurchaseOrderItem
	require.NoError(t, db.Where("id = ?", order.Items[0].ID).First(&item).Error)
	require.NotNil(t, item.DeliveredQuantityKG)
	assert.True(t, item.DeliveredQuantityKG.Equal(dec(t, "40")))
	assert.Equal(t, enums.QualityStatusAccepted, item.QualityStatus)

	// delivery progress never changes the order's committed value
	var stored models.PurchaseOrder
	require.NoError(t, db.Where("id = ?", order.ID).First(&stored).Error)
	assert.True(t, stored.TotalValue.Equal(dec(t, "250")))

	// negative quantities are rejected
	err = svc.UpdateLineItemDelivery(ctx, DeliveryUpdateInput{
		OrderID:             order.ID,
		ItemID:              order.Items[0].ID,
		DeliveredQuantityKG: dec(t, "-1"),
	})
	require.Error(t, err)
}

func TestReconcileEndToEnd(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	product := newProduct(t, db, "OLV-EV-500")

	pod, err := svc.CreateOrder(ctx, distributorOrderInput(t, product.ID, "1000", "2.50"))
	require.NoError(t, err)

	posA, err := svc.CreateOrder(ctx, supplierOrderInput(t, product.ID, "400", "2.10", idPtr(pod.ID)))
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, supplierOrderInput(t, product.ID, "500", "2.10", idPtr(pod.ID)))
	require.NoError(t, err)

	// cancelled supplier orders commit nothing
	ghost, err := svc.CreateOrder(ctx, supplierOrderInput(t, product.ID, "300", "2.10", idPtr(pod.ID)))
	require.NoError(t, err)
	require.NoError(t, svc.UpdateStatus(ctx, StatusUpdateInput{OrderID: ghost.ID, Status: enums.OrderStatusCancelled}))

	require.NoError(t, svc.UpdateLineItemDelivery(ctx, DeliveryUpdateInput{
		OrderID:             posA.ID,
		ItemID:              posA.Items[0].ID,
		DeliveredQuantityKG: dec(t, "400"),
	}))

	report, err := svc.Reconcile(ctx, pod.ID)
	require.NoError(t, err)
	require.Len(t, report.Products, 1)
	line := report.Products[0]
	assert.True(t, line.RequestedQuantity.Equal(dec(t, "1000")))
	assert.True(t, line.CommittedQuantity.Equal(dec(t, "900")))
	assert.True(t, line.DeliveredQuantity.Equal(dec(t, "400")))
	assert.True(t, line.ShortageQuantity.Equal(dec(t, "100")))
	assert.True(t, line.PendingDelivery.Equal(dec(t, "500")))
	assert.True(t, line.FulfillmentPercentage.Equal(dec(t, "90")))
	assert.True(t, report.HasShortages)
	assert.False(t, report.IsFullyCommitted)
	assert.True(t, report.TotalShortageValue.Equal(dec(t, "250")))

	// a second run with no intervening mutation reports the same outcome
	again, err := svc.Reconcile(ctx, pod.ID)
	require.NoError(t, err)
	assert.Equal(t, report, again)

	// reconciliation only applies to distributor orders
	_, err = svc.Reconcile(ctx, posA.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConsistency, typed.Code())
}

func TestGetOrderDetailIncludesFulfillment(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	product := newProduct(t, db, "OLV-EV-500")

	pod, err := svc.CreateOrder(ctx, distributorOrderInput(t, product.ID, "1000", "2.50"))
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, supplierOrderInput(t, product.ID, "400", "2.10", idPtr(pod.ID)))
	require.NoError(t, err)

	detail, err := svc.GetOrder(ctx, pod.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", detail.StatusDisplay)
	assert.True(t, detail.CanBeCancelled)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, enums.DeliveryStatePending, detail.Items[0].DeliveryState)
	require.NotNil(t, detail.Fulfillment)
	assert.True(t, detail.Fulfillment.Products[0].CommittedQuantity.Equal(dec(t, "400")))

	// supplier orders carry no fulfillment section
	pos, err := svc.CreateOrder(ctx, supplierOrderInput(t, product.ID, "100", "2.10", nil))
	require.NoError(t, err)
	posDetail, err := svc.GetOrder(ctx, pos.ID)
	require.NoError(t, err)
	assert.Nil(t, posDetail.Fulfillment)
}

func TestPipelineForecastBucketsByMonth(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	product := newProduct(t, db, "OLV-EV-500")

	nextMonth := time.Now().AddDate(0, 1, 0)
	inTwoMonths := time.Now().AddDate(0, 2, 0)
	farFuture := time.Now().AddDate(2, 0, 0)

	for _, due := range []time.Time{nextMonth, nextMonth, inTwoMonths, farFuture} {
		input := distributorOrderInput(t, product.ID, "100", "2.00")
		d := due
		input.RequiredDeliveryDate = &d
		_, err := svc.CreateOrder(ctx, input)
		require.NoError(t, err)
	}

	// delivered orders drop out of the pipeline
	doneInput := distributorOrderInput(t, product.ID, "100", "2.00")
	doneInput.RequiredDeliveryDate = &nextMonth
	done, err := svc.CreateOrder(ctx, doneInput)
	require.NoError(t, err)
	require.NoError(t, svc.UpdateStatus(ctx, StatusUpdateInput{OrderID: done.ID, Status: enums.OrderStatusAcceptedBySupplier}))
	require.NoError(t, svc.UpdateStatus(ctx, StatusUpdateInput{OrderID: done.ID, Status: enums.OrderStatusInDelivery}))
	require.NoError(t, svc.UpdateStatus(ctx, StatusUpdateInput{OrderID: done.ID, Status: enums.OrderStatusDelivered}))

	forecast, err := svc.PipelineForecast(ctx, 6)
	require.NoError(t, err)
	require.Len(t, forecast.Buckets, 2)
	assert.Equal(t, nextMonth.Format("2006-01"), forecast.Buckets[0].Month)
	assert.Equal(t, 2, forecast.Buckets[0].OrderCount)
	assert.True(t, forecast.Buckets[0].TotalValue.Equal(dec(t, "400")))
	assert.Equal(t, 1, forecast.Buckets[1].OrderCount)

	_, err = svc.PipelineForecast(ctx, 0)
	require.Error(t, err)
}

func TestPipelineForecastAnnotatesDistributorOrders(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	product := newProduct(t, db, "OLV-EV-500")

	nextMonth := time.Now().AddDate(0, 1, 0)

	coveredInput := distributorOrderInput(t, product.ID, "100", "2.00")
	coveredInput.RequiredDeliveryDate = &nextMonth
	covered, err := svc.CreateOrder(ctx, coveredInput)
	require.NoError(t, err)

	shortInput := distributorOrderInput(t, product.ID, "100", "2.00")
	shortInput.RequiredDeliveryDate = &nextMonth
	short, err := svc.CreateOrder(ctx, shortInput)
	require.NoError(t, err)

	// a linked supplier order covers the first distributor order in full
	posInput := supplierOrderInput(t, product.ID, "150", "2.10", idPtr(covered.ID))
	posInput.RequiredDeliveryDate = &nextMonth
	_, err = svc.CreateOrder(ctx, posInput)
	require.NoError(t, err)

	forecast, err := svc.PipelineForecast(ctx, 6)
	require.NoError(t, err)

	require.Len(t, forecast.DistributorOrders, 2)
	require.Len(t, forecast.SupplierOrders, 1)

	byID := map[uuid.UUID]ForecastOrder{}
	for _, entry := range forecast.DistributorOrders {
		byID[entry.ID] = entry
	}

	coveredEntry := byID[covered.ID]
	require.NotNil(t, coveredEntry.Fulfillment)
	assert.False(t, coveredEntry.Fulfillment.HasShortages)
	require.Len(t, coveredEntry.Fulfillment.Products, 1)
	assert.True(t, coveredEntry.Fulfillment.Products[0].CommittedQuantity.Equal(dec(t, "150")))

	shortEntry := byID[short.ID]
	require.NotNil(t, shortEntry.Fulfillment)
	assert.True(t, shortEntry.Fulfillment.HasShortages)

	summary := forecast.Summary
	assert.Equal(t, 2, summary.TotalPODOrders)
	assert.Equal(t, 1, summary.TotalPOSOrders)
	assert.Equal(t, 1, summary.OrdersWithShortages)
	assert.True(t, summary.TotalPODValue.Equal(dec(t, "400")), "got %s", summary.TotalPODValue)
	assert.True(t, summary.TotalPOSValue.Equal(dec(t, "315")), "got %s", summary.TotalPOSValue)
}
