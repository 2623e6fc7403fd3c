package suppliers

// ContactInput is one named contact with direct reach details.
type ContactInput struct {
	Name      string `json:"name" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email"`
	Telephone string `json:"telephone" validate:"required,max=64"`
}

// CreateSupplierInput captures a new supply-side counterparty.
type CreateSupplierInput struct {
	BusinessName      string       `json:"business_name" validate:"required,max=255"`
	RegisteredAddress string       `json:"registered_address" validate:"required,max=512"`
	Country           string       `json:"country" validate:"required,max=128"`
	VATNumber         string       `json:"vat_number" validate:"required,max=64"`
	SalesContact      ContactInput `json:"sales_contact" validate:"required"`
	LogisticsContact  ContactInput `json:"logistics_contact" validate:"required"`
}

// UpdateSupplierInput patches counterparty fields. Nil fields are untouched.
type UpdateSupplierInput struct {
	BusinessName      *string       `json:"business_name" validate:"omitempty,max=255"`
	RegisteredAddress *string       `json:"registered_address" validate:"omitempty,max=512"`
	Country           *string       `json:"country" validate:"omitempty,max=128"`
	VATNumber         *string       `json:"vat_number" validate:"omitempty,max=64"`
	SalesContact      *ContactInput `json:"sales_contact" validate:"omitempty"`
	LogisticsContact  *ContactInput `json:"logistics_contact" validate:"omitempty"`
}
