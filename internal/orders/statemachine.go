package orders

import "github.com/veldtrade/procurement-backend/pkg/enums"

// allowedTransitions is the full lifecycle graph. Anything absent here is
// rejected, which also makes every terminal status a dead end.
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusNew: {
		enums.OrderStatusAcceptedBySupplier,
		enums.OrderStatusRejectedBySupplier,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusAcceptedBySupplier: {
		enums.OrderStatusInDelivery,
		enums.OrderStatusRejectedByDistributor,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusInDelivery: {
		enums.OrderStatusDelivered,
		enums.OrderStatusRejectedByDistributor,
		enums.OrderStatusCancelled,
	},
}

// CanTransition reports whether the lifecycle allows moving from one status
// to another.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from the given one.
func AllowedTransitions(from enums.OrderStatus) []enums.OrderStatus {
	targets := allowedTransitions[from]
	out := make([]enums.OrderStatus, len(targets))
	copy(out, targets)
	return out
}

// CanCancel reports whether an order in the given status may still be
// cancelled. Terminal orders are history and stay untouched.
func CanCancel(status enums.OrderStatus) bool {
	return !status.IsTerminal()
}
