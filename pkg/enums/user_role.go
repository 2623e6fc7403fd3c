package enums

import "fmt"

// UserRole identifies the acting role supplied with status updates. Role
// gating itself happens upstream; the role is carried for audit logging.
type UserRole string

const (
	UserRoleSystemAdministrator UserRole = "system_administrator"
	UserRolePurchasingManager   UserRole = "purchasing_manager"
	UserRoleFieldSalesAssociate UserRole = "field_sales_associate"
)

var validUserRoles = []UserRole{
	UserRoleSystemAdministrator,
	UserRolePurchasingManager,
	UserRoleFieldSalesAssociate,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
