package enums

// DeliveryState is derived from a line item's requested and delivered
// quantities. It is computed on read and never stored.
type DeliveryState string

const (
	DeliveryStatePending   DeliveryState = "pending"
	DeliveryStatePartial   DeliveryState = "partial"
	DeliveryStateDelivered DeliveryState = "delivered"
)

// String implements fmt.Stringer.
func (d DeliveryState) String() string {
	return string(d)
}
