package enums

import "fmt"

// OrderCategory distinguishes demand-side from supply-side purchase orders.
type OrderCategory string

const (
	OrderCategoryDistributor OrderCategory = "distributor_order"
	OrderCategorySupplier    OrderCategory = "supplier_order"
)

var validOrderCategories = []OrderCategory{
	OrderCategoryDistributor,
	OrderCategorySupplier,
}

// String implements fmt.Stringer.
func (c OrderCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known OrderCategory.
func (c OrderCategory) IsValid() bool {
	for _, candidate := range validOrderCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// Prefix returns the order-number prefix used for this category.
func (c OrderCategory) Prefix() string {
	if c == OrderCategoryDistributor {
		return "POD"
	}
	return "POS"
}

// ParseOrderCategory converts raw input into an OrderCategory.
func ParseOrderCategory(value string) (OrderCategory, error) {
	for _, candidate := range validOrderCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order category %q", value)
}
