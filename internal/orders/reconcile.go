package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veldtrade/procurement-backend/pkg/db/models"
)

var hundred = decimal.NewFromInt(100)

// buildFulfillmentReport compares a distributor order's demand lines against
// the supply lines of its linked supplier orders. Quantities are aggregated
// per product; a supplier line for a product the distributor never asked for
// is ignored. Shortage value is priced at the distributor order's own unit
// price for the product.
func buildFulfillmentReport(order *models.PurchaseOrder, demand, supply []models.PurchaseOrderItem) *FulfillmentReport {
	type productAgg struct {
		requested   decimal.Decimal
		committed   decimal.Decimal
		delivered   decimal.Decimal
		unitPrice   decimal.Decimal
		code        string
		description string
	}

	aggs := map[uuid.UUID]*productAgg{}
	productOrder := make([]uuid.UUID, 0, len(demand))

	for i := range demand {
		item := &demand[i]
		agg, ok := aggs[item.ProductID]
		if !ok {
			agg = &productAgg{unitPrice: item.UnitPrice}
			if item.Product != nil {
				agg.code = item.Product.ProductCode
				agg.description = item.Product.Description
			}
			aggs[item.ProductID] = agg
			productOrder = append(productOrder, item.ProductID)
		}
		agg.requested = agg.requested.Add(item.QuantityKG)
	}

	for i := range supply {
		item := &supply[i]
		agg, ok := aggs[item.ProductID]
		if !ok {
			continue
		}
		agg.committed = agg.committed.Add(item.QuantityKG)
		if item.DeliveredQuantityKG != nil {
			agg.delivered = agg.delivered.Add(*item.DeliveredQuantityKG)
		}
	}

	report := &FulfillmentReport{
		OrderID:            order.ID,
		PONumber:           order.PONumber,
		Products:           make([]ProductFulfillment, 0, len(productOrder)),
		IsFullyCommitted:   true,
		TotalShortageValue: decimal.Zero,
	}

	for _, productID := range productOrder {
		agg := aggs[productID]

		shortage := agg.requested.Sub(agg.committed)
		if shortage.IsNegative() {
			shortage = decimal.Zero
		}
		pending := agg.committed.Sub(agg.delivered)
		if pending.IsNegative() {
			pending = decimal.Zero
		}

		fulfillmentPct := decimal.Zero
		if agg.requested.IsPositive() {
			fulfillmentPct = agg.committed.Div(agg.requested).Mul(hundred).Round(2)
		}
		deliveryPct := decimal.Zero
		if agg.committed.IsPositive() {
			deliveryPct = agg.delivered.Div(agg.committed).Mul(hundred).Round(2)
		}

		if shortage.IsPositive() {
			report.HasShortages = true
			report.IsFullyCommitted = false
			report.TotalShortageValue = report.TotalShortageValue.Add(shortage.Mul(agg.unitPrice))
		}

		report.Products = append(report.Products, ProductFulfillment{
			ProductID:             productID,
			ProductCode:           agg.code,
			ProductDescription:    agg.description,
			RequestedQuantity:     agg.requested,
			CommittedQuantity:     agg.committed,
			DeliveredQuantity:     agg.delivered,
			ShortageQuantity:      shortage,
			PendingDelivery:       pending,
			FulfillmentPercentage: fulfillmentPct,
			DeliveryPercentage:    deliveryPct,
		})
	}

	report.TotalShortageValue = report.TotalShortageValue.Round(2)
	return report
}
