package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/veldtrade/procurement-backend/pkg/enums"
)

// User is the creator reference carried on purchase orders. Authentication
// and credential storage live outside this service.
type User struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	Email     string         `gorm:"column:email;not null;uniqueIndex:uq_users_email"`
	Role      enums.UserRole `gorm:"column:role;type:text;not null"`
	IsActive  bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
