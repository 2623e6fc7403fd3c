package suppliers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veldtrade/procurement-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a supplier repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateSupplier(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	if err := r.db.WithContext(ctx).Create(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

func (r *repository) FindSupplier(ctx context.Context, supplierID uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).
		Where("id = ?", supplierID).
		First(&supplier).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *repository) ListSuppliers(ctx context.Context, query string) ([]models.Supplier, error) {
	q := r.db.WithContext(ctx)
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("business_name LIKE ? OR vat_number LIKE ?", pattern, pattern)
	}

	var suppliers []models.Supplier
	if err := q.Order("business_name ASC").Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *repository) UpdateSupplier(ctx context.Context, supplierID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Supplier{}).
		Where("id = ?", supplierID).
		Updates(updates).Error
}

func (r *repository) DeleteSupplier(ctx context.Context, supplierID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", supplierID).
		Delete(&models.Supplier{}).Error
}

func (r *repository) CountOrderRefs(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
