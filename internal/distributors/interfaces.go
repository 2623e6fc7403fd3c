package distributors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veldtrade/procurement-backend/pkg/db/models"
)

// Repository defines persistence operations for demand-side counterparties.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateDistributor(ctx context.Context, distributor *models.Distributor) (*models.Distributor, error)
	FindDistributor(ctx context.Context, distributorID uuid.UUID) (*models.Distributor, error)
	ListDistributors(ctx context.Context, query string) ([]models.Distributor, error)
	UpdateDistributor(ctx context.Context, distributorID uuid.UUID, updates map[string]any) error
	DeleteDistributor(ctx context.Context, distributorID uuid.UUID) error
	CountOrderRefs(ctx context.Context, distributorID uuid.UUID) (int64, error)
}
