package products

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/veldtrade/procurement-backend/pkg/db/models"
	pkgerrors "github.com/veldtrade/procurement-backend/pkg/errors"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  product_code TEXT NOT NULL,
  description TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT uq_products_product_code UNIQUE (product_code)
);`,
		`CREATE TABLE IF NOT EXISTS product_prices (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  year INTEGER NOT NULL,
  price_per_kg NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT uq_product_prices_product_year UNIQUE (product_id, year)
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

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db}, nil)
	require.NoError(t, err)
	return svc
}

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func TestCreateProductWithPrices(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, CreateProductInput{
		ProductCode: "OLV-EV-500",
		Description: "Extra virgin olive oil, 500l drum",
		Prices: []PriceInput{
			{Year: 2026, PricePerKG: dec(t, "2.50")},
			{Year: 2027, PricePerKG: dec(t, "2.65")},
		},
	})
	require.NoError(t, err)

	loaded, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "OLV-EV-500", loaded.ProductCode)
	require.Len(t, loaded.Prices, 2)
	assert.Equal(t, 2026, loaded.Prices[0].Year)
	assert.True(t, loaded.Prices[0].PricePerKG.Equal(dec(t, "2.50")))
}

func TestCreateProductDuplicateCode(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	input := CreateProductInput{ProductCode: "OLV-EV-500", Description: "Extra virgin olive oil"}
	_, err := svc.CreateProduct(ctx, input)
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, input)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestCreateProductRejectsDuplicatePriceYears(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		ProductCode: "OLV-EV-500",
		Description: "Extra virgin olive oil",
		Prices: []PriceInput{
			{Year: 2026, PricePerKG: dec(t, "2.50")},
			{Year: 2026, PricePerKG: dec(t, "2.60")},
		},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSetYearlyPriceUpserts(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, CreateProductInput{
		ProductCode: "OLV-EV-500",
		Description: "Extra virgin olive oil",
	})
	require.NoError(t, err)

	created, err := svc.SetYearlyPrice(ctx, product.ID, PriceInput{Year: 2026, PricePerKG: dec(t, "2.50")})
	require.NoError(t, err)
	assert.True(t, created.PricePerKG.Equal(dec(t, "2.50")))

	// same year revises the existing row instead of adding a second one
	revised, err := svc.SetYearlyPrice(ctx, product.ID, PriceInput{Year: 2026, PricePerKG: dec(t, "2.75")})
	require.NoError(t, err)
	assert.Equal(t, created.ID, revised.ID)

	var count int64
	require.NoError(t, db.Model(&models.ProductPrice{}).Where("product_id = ?", product.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var stored models.ProductPrice
	require.NoError(t, db.Where("id = ?", created.ID).First(&stored).Error)
	assert.True(t, stored.PricePerKG.Equal(dec(t, "2.75")))
}

func TestUnitPriceFor(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, CreateProductInput{
		ProductCode: "OLV-EV-500",
		Description: "Extra virgin olive oil",
		Prices:      []PriceInput{{Year: 2026, PricePerKG: dec(t, "2.50")}},
	})
	require.NoError(t, err)

	price, err := svc.UnitPriceFor(ctx, nil, product.ID, 2026)
	require.NoError(t, err)
	assert.True(t, price.Equal(dec(t, "2.50")))

	_, err = svc.UnitPriceFor(ctx, nil, product.ID, 2031)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteProductGuardsOrderReferences(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, CreateProductInput{
		ProductCode: "OLV-EV-500",
		Description: "Extra virgin olive oil",
	})
	require.NoError(t, err)

	item := models.PurchaseOrderItem{
		ID:                   uuid.New(),
		OrderID:              uuid.New(),
		ProductID:            product.ID,
		QuantityKG:           dec(t, "100"),
		RequiredDeliveryDate: time.Now().AddDate(0, 1, 0),
		UnitPrice:            dec(t, "2.50"),
		TotalValue:           dec(t, "250"),
	}
	require.NoError(t, db.Create(&item).Error)

	err = svc.DeleteProduct(ctx, product.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// unreferenced products delete cleanly
	require.NoError(t, db.Where("id = ?", item.ID).Delete(&models.PurchaseOrderItem{}).Error)
	require.NoError(t, svc.DeleteProduct(ctx, product.ID))

	_, err = svc.GetProduct(ctx, product.ID)
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
