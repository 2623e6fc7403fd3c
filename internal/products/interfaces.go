package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veldtrade/procurement-backend/pkg/db/models"
)

// Repository defines the persistence operations for the product catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	FindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, query string) ([]models.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, updates map[string]any) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	CountOrderItemRefs(ctx context.Context, productID uuid.UUID) (int64, error)

	FindPrice(ctx context.Context, productID uuid.UUID, year int) (*models.ProductPrice, error)
	CreatePrice(ctx context.Context, price *models.ProductPrice) error
	UpdatePrice(ctx context.Context, priceID uuid.UUID, updates map[string]any) error
}
