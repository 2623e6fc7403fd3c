package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/veldtrade/procurement-backend/pkg/db/models"
	"github.com/veldtrade/procurement-backend/pkg/enums"
)

// DeliveryStateFor derives the delivery state from requested vs delivered
// quantity. It is never stored.
func DeliveryStateFor(item *models.PurchaseOrderItem) enums.DeliveryState {
	if item.DeliveredQuantityKG == nil || item.DeliveredQuantityKG.IsZero() {
		return enums.DeliveryStatePending
	}
	if item.DeliveredQuantityKG.GreaterThanOrEqual(item.QuantityKG) {
		return enums.DeliveryStateDelivered
	}
	return enums.DeliveryStatePartial
}

// ShortfallKG is the quantity still owed on a line item, floored at zero.
func ShortfallKG(item *models.PurchaseOrderItem) decimal.Decimal {
	delivered := decimal.Zero
	if item.DeliveredQuantityKG != nil {
		delivered = *item.DeliveredQuantityKG
	}
	shortfall := item.QuantityKG.Sub(delivered)
	if shortfall.IsNegative() {
		return decimal.Zero
	}
	return shortfall
}

// IsOverdue reports whether the line item missed its required date without
// being fully delivered.
func IsOverdue(item *models.PurchaseOrderItem, now time.Time) bool {
	if DeliveryStateFor(item) == enums.DeliveryStateDelivered {
		return false
	}
	return now.After(item.RequiredDeliveryDate)
}

// DaysUntilDue counts whole days until the required delivery date. Negative
// values mean the date has passed.
func DaysUntilDue(item *models.PurchaseOrderItem, now time.Time) int {
	return daysBetween(now, item.RequiredDeliveryDate)
}

func newLineItemView(item models.PurchaseOrderItem, now time.Time) LineItemView {
	return LineItemView{
		PurchaseOrderItem: item,
		DeliveryState:     DeliveryStateFor(&item),
		ShortfallKG:       ShortfallKG(&item),
		Overdue:           IsOverdue(&item, now),
		DaysUntilDue:      DaysUntilDue(&item, now),
	}
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
