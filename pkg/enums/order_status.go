package enums

import "fmt"

// OrderStatus tracks the lifecycle of a purchase order.
type OrderStatus string

const (
	OrderStatusNew                   OrderStatus = "new"
	OrderStatusAcceptedBySupplier    OrderStatus = "accepted_by_supplier"
	OrderStatusInDelivery            OrderStatus = "in_delivery"
	OrderStatusDelivered             OrderStatus = "delivered"
	OrderStatusRejectedBySupplier    OrderStatus = "rejected_by_supplier"
	OrderStatusRejectedByDistributor OrderStatus = "rejected_by_distributor"
	OrderStatusCancelled             OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusAcceptedBySupplier,
	OrderStatusInDelivery,
	OrderStatusDelivered,
	OrderStatusRejectedBySupplier,
	OrderStatusRejectedByDistributor,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed. Terminal
// orders are immutable history: they can be neither cancelled nor deleted.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusDelivered,
		OrderStatusCancelled,
		OrderStatusRejectedBySupplier,
		OrderStatusRejectedByDistributor:
		return true
	default:
		return false
	}
}

// DisplayName returns the human-readable status label, computed on read.
func (s OrderStatus) DisplayName() string {
	switch s {
	case OrderStatusNew:
		return "New"
	case OrderStatusAcceptedBySupplier:
		return "Accepted by Supplier"
	case OrderStatusInDelivery:
		return "In Delivery"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusRejectedBySupplier:
		return "Rejected by Supplier"
	case OrderStatusRejectedByDistributor:
		return "Rejected by Distributor"
	case OrderStatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
