package orders

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldtrade/procurement-backend/pkg/db/models"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func demandLine(t *testing.T, productID uuid.UUID, qty, unitPrice string) models.PurchaseOrderItem {
	t.Helper()
	q := dec(t, qty)
	p := dec(t, unitPrice)
	return models.PurchaseOrderItem{
		ID:                   uuid.New(),
		ProductID:            productID,
		QuantityKG:           q,
		RequiredDeliveryDate: time.Now().AddDate(0, 1, 0),
		UnitPrice:            p,
		TotalValue:           q.Mul(p),
		Product:              &models.Product{ID: productID, ProductCode: "OLV-EV-500", Description: "Extra virgin olive oil"},
	}
}

func supplyLine(t *testing.T, productID uuid.UUID, qty string, delivered *string) models.PurchaseOrderItem {
	t.Helper()
	item := models.PurchaseOrderItem{
		ID:                   uuid.New(),
		ProductID:            productID,
		QuantityKG:           dec(t, qty),
		RequiredDeliveryDate: time.Now().AddDate(0, 1, 0),
		UnitPrice:            dec(t, "2.10"),
	}
	if delivered != nil {
		d := dec(t, *delivered)
		item.DeliveredQuantityKG = &d
	}
	return item
}

func strPtr(s string) *string { return &s }

func TestFulfillmentReportShortage(t *testing.T) {
	productID := uuid.New()
	order := &models.PurchaseOrder{ID: uuid.New(), PONumber: "POD-00007"}

	demand := []models.PurchaseOrderItem{demandLine(t, productID, "1000", "2.50")}
	supply := []models.PurchaseOrderItem{
		supplyLine(t, productID, "400", nil),
		supplyLine(t, productID, "500", nil),
	}

	report := buildFulfillmentReport(order, demand, supply)

	require.Len(t, report.Products, 1)
	line := report.Products[0]
	assert.True(t, line.RequestedQuantity.Equal(dec(t, "1000")))
	assert.True(t, line.CommittedQuantity.Equal(dec(t, "900")))
	assert.True(t, line.ShortageQuantity.Equal(dec(t, "100")))
	assert.True(t, line.PendingDelivery.Equal(dec(t, "900")))
	assert.True(t, line.FulfillmentPercentage.Equal(dec(t, "90")))
	assert.True(t, line.DeliveryPercentage.Equal(dec(t, "0")))

	assert.True(t, report.HasShortages)
	assert.False(t, report.IsFullyCommitted)
	// shortage priced at the distributor order's own unit price
	assert.True(t, report.TotalShortageValue.Equal(dec(t, "250")))
}

func TestFulfillmentReportDeliveryProgress(t *testing.T) {
	productID := uuid.New()
	order := &models.PurchaseOrder{ID: uuid.New(), PONumber: "POD-00008"}

	demand := []models.PurchaseOrderItem{demandLine(t, productID, "1000", "2.50")}
	supply := []models.PurchaseOrderItem{
		supplyLine(t, productID, "400", strPtr("400")),
		supplyLine(t, productID, "500", strPtr("500")),
	}

	report := buildFulfillmentReport(order, demand, supply)

	require.Len(t, report.Products, 1)
	line := report.Products[0]
	assert.True(t, line.DeliveredQuantity.Equal(dec(t, "900")))
	assert.True(t, line.PendingDelivery.Equal(dec(t, "0")))
	assert.True(t, line.DeliveryPercentage.Equal(dec(t, "100")))
}

func TestFulfillmentReportOverCommitHasNoShortage(t *testing.T) {
	productID := uuid.New()
	order := &models.PurchaseOrder{ID: uuid.New(), PONumber: "POD-00009"}

	demand := []models.PurchaseOrderItem{demandLine(t, productID, "100", "3.00")}
	supply := []models.PurchaseOrderItem{supplyLine(t, productID, "110", nil)}

	report := buildFulfillmentReport(order, demand, supply)

	require.Len(t, report.Products, 1)
	line := report.Products[0]
	assert.True(t, line.ShortageQuantity.Equal(dec(t, "0")))
	assert.True(t, line.FulfillmentPercentage.Equal(dec(t, "110")))
	assert.False(t, report.HasShortages)
	assert.True(t, report.IsFullyCommitted)
	assert.True(t, report.TotalShortageValue.Equal(dec(t, "0")))
}

func TestFulfillmentReportNoLinkedSupply(t *testing.T) {
	productID := uuid.New()
	order := &models.PurchaseOrder{ID: uuid.New(), PONumber: "POD-00010"}

	demand := []models.PurchaseOrderItem{demandLine(t, productID, "250", "1.80")}

	report := buildFulfillmentReport(order, demand, nil)

	require.Len(t, report.Products, 1)
	line := report.Products[0]
	assert.True(t, line.CommittedQuantity.Equal(dec(t, "0")))
	assert.True(t, line.FulfillmentPercentage.Equal(dec(t, "0")))
	assert.True(t, line.ShortageQuantity.Equal(dec(t, "250")))
	assert.True(t, report.TotalShortageValue.Equal(dec(t, "450")))
}

func TestFulfillmentReportIgnoresUnrequestedSupply(t *testing.T) {
	requested := uuid.New()
	unrequested := uuid.New()
	order := &models.PurchaseOrder{ID: uuid.New(), PONumber: "POD-00011"}

	demand := []models.PurchaseOrderItem{demandLine(t, requested, "100", "2.00")}
	supply := []models.PurchaseOrderItem{
		supplyLine(t, requested, "100", nil),
		supplyLine(t, unrequested, "500", nil),
	}

	report := buildFulfillmentReport(order, demand, supply)

	require.Len(t, report.Products, 1)
	assert.Equal(t, requested, report.Products[0].ProductID)
	assert.True(t, report.IsFullyCommitted)
}

func TestFulfillmentReportAggregatesDuplicateDemandLines(t *testing.T) {
	productID := uuid.New()
	order := &models.PurchaseOrder{ID: uuid.New(), PONumber: "POD-00012"}

	demand := []models.PurchaseOrderItem{
		demandLine(t, productID, "300", "2.00"),
		demandLine(t, productID, "200", "2.00"),
	}
	supply := []models.PurchaseOrderItem{supplyLine(t, productID, "400", nil)}

	report := buildFulfillmentReport(order, demand, supply)

	require.Len(t, report.Products, 1)
	line := report.Products[0]
	assert.True(t, line.RequestedQuantity.Equal(dec(t, "500")))
	assert.True(t, line.ShortageQuantity.Equal(dec(t, "100")))
	assert.True(t, line.FulfillmentPercentage.Equal(dec(t, "80")))
}
