package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veldtrade/procurement-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) FindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Prices", func(db *gorm.DB) *gorm.DB {
			return db.Order("year ASC")
		}).
		Where("id = ?", productID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListProducts(ctx context.Context, query string) ([]models.Product, error) {
	q := r.db.WithContext(ctx).
		Preload("Prices", func(db *gorm.DB) *gorm.DB {
			return db.Order("year ASC")
		})
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("product_code LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var products []models.Product
	if err := q.Order("product_code ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) UpdateProduct(ctx context.Context, productID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(updates).Error
}

func (r *repository) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", productID).
		Delete(&models.Product{}).Error
}

func (r *repository) CountOrderItemRefs(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrderItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) FindPrice(ctx context.Context, productID uuid.UUID, year int) (*models.ProductPrice, error) {
	var price models.ProductPrice
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND year = ?", productID, year).
		First(&price).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *repository) CreatePrice(ctx context.Context, price *models.ProductPrice) error {
	return r.db.WithContext(ctx).Create(price).Error
}

func (r *repository) UpdatePrice(ctx context.Context, priceID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductPrice{}).
		Where("id = ?", priceID).
		Updates(updates).Error
}
