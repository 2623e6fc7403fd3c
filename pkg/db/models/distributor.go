package models

import (
	"time"

	"github.com/google/uuid"
)

// Distributor is a demand-side counterparty.
type Distributor struct {
	ID                               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessName                     string    `gorm:"column:business_name;not null"`
	RegisteredAddress                string    `gorm:"column:registered_address;not null"`
	Country                          string    `gorm:"column:country;not null"`
	VATNumber                        string    `gorm:"column:vat_number;not null"`
	PrimarySalesContactName          string    `gorm:"column:primary_sales_contact_name;not null"`
	PrimarySalesContactEmail         string    `gorm:"column:primary_sales_contact_email;not null"`
	PrimarySalesContactTelephone     string    `gorm:"column:primary_sales_contact_telephone;not null"`
	PrimaryLogisticsContactName      string    `gorm:"column:primary_logistics_contact_name;not null"`
	PrimaryLogisticsContactEmail     string    `gorm:"column:primary_logistics_contact_email;not null"`
	PrimaryLogisticsContactTelephone string    `gorm:"column:primary_logistics_contact_telephone;not null"`
	CreatedAt                        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
