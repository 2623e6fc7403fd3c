package suppliers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veldtrade/procurement-backend/pkg/db/models"
)

// Repository defines persistence operations for supply-side counterparties.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateSupplier(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error)
	FindSupplier(ctx context.Context, supplierID uuid.UUID) (*models.Supplier, error)
	ListSuppliers(ctx context.Context, query string) ([]models.Supplier, error)
	UpdateSupplier(ctx context.Context, supplierID uuid.UUID, updates map[string]any) error
	DeleteSupplier(ctx context.Context, supplierID uuid.UUID) error
	CountOrderRefs(ctx context.Context, supplierID uuid.UUID) (int64, error)
}
