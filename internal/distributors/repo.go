package distributors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veldtrade/procurement-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a distributor repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateDistributor(ctx context.Context, distributor *models.Distributor) (*models.Distributor, error) {
	if err := r.db.WithContext(ctx).Create(distributor).Error; err != nil {
		return nil, err
	}
	return distributor, nil
}

func (r *repository) FindDistributor(ctx context.Context, distributorID uuid.UUID) (*models.Distributor, error) {
	var distributor models.Distributor
	err := r.db.WithContext(ctx).
		Where("id = ?", distributorID).
		First(&distributor).Error
	if err != nil {
		return nil, err
	}
	return &distributor, nil
}

func (r *repository) ListDistributors(ctx context.Context, query string) ([]models.Distributor, error) {
	q := r.db.WithContext(ctx)
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("business_name LIKE ? OR vat_number LIKE ?", pattern, pattern)
	}

	var distributors []models.Distributor
	if err := q.Order("business_name ASC").Find(&distributors).Error; err != nil {
		return nil, err
	}
	return distributors, nil
}

func (r *repository) UpdateDistributor(ctx context.Context, distributorID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Distributor{}).
		Where("id = ?", distributorID).
		Updates(updates).Error
}

func (r *repository) DeleteDistributor(ctx context.Context, distributorID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", distributorID).
		Delete(&models.Distributor{}).Error
}

func (r *repository) CountOrderRefs(ctx context.Context, distributorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Where("distributor_id = ?", distributorID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
