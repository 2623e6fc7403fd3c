package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/veldtrade/procurement-backend/pkg/db"
	"github.com/veldtrade/procurement-backend/pkg/db/models"
	pkgerrors "github.com/veldtrade/procurement-backend/pkg/errors"
	"github.com/veldtrade/procurement-backend/pkg/logger"
)

const (
	productCodeConstraint = "uq_products_product_code"
	priceYearConstraint   = "uq_product_prices_product_year"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines catalog operations. It also satisfies the price resolver
// contract used when pricing order lines.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, query string) ([]models.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	SetYearlyPrice(ctx context.Context, productID uuid.UUID, input PriceInput) (*models.ProductPrice, error)
	UnitPriceFor(ctx context.Context, tx *gorm.DB, productID uuid.UUID, year int) (decimal.Decimal, error)
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds a product service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	code := strings.TrimSpace(input.ProductCode)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product code required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description required")
	}
	if err := validatePrices(input.Prices); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          uuid.New(),
		ProductCode: code,
		Description: strings.TrimSpace(input.Description),
	}
	for _, price := range input.Prices {
		product.Prices = append(product.Prices, models.ProductPrice{
			ID:         uuid.New(),
			ProductID:  product.ID,
			Year:       price.Year,
			PricePerKG: price.PricePerKG,
		})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).CreateProduct(ctx, product); err != nil {
			if db.IsUniqueViolation(err, productCodeConstraint) {
				return pkgerrors.New(pkgerrors.CodeConflict,
					fmt.Sprintf("product code %s already exists", code))
			}
			if db.IsUniqueViolation(err, priceYearConstraint) {
				return pkgerrors.New(pkgerrors.CodeValidation, "duplicate price year")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "product_code", product.ProductCode), "product.created")
	}
	return product, nil
}

func validatePrices(prices []PriceInput) error {
	years := map[int]struct{}{}
	for i, price := range prices {
		if price.Year < 2000 || price.Year > 2100 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("price %d: year out of range", i))
		}
		if price.PricePerKG.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("price %d: price must not be negative", i))
		}
		if _, seen := years[price.Year]; seen {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("price %d: duplicate year %d", i, price.Year))
		}
		years[price.Year] = struct{}{}
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, query string) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	updates := map[string]any{}
	if input.ProductCode != nil {
		code := strings.TrimSpace(*input.ProductCode)
		if code == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "product code must not be empty")
		}
		updates["product_code"] = code
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "description must not be empty")
		}
		updates["description"] = description
	}
	if len(updates) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no updatable fields provided")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindProduct(ctx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if err := repo.UpdateProduct(ctx, productID, updates); err != nil {
			if db.IsUniqueViolation(err, productCodeConstraint) {
				return pkgerrors.New(pkgerrors.CodeConflict, "product code already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
		}
		return nil
	})
}

func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindProduct(ctx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		refs, err := repo.CountOrderItemRefs(ctx, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count order references")
		}
		if refs > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "product is referenced by purchase order items").
				WithDetails(map[string]any{"order_item_count": refs})
		}

		if err := repo.DeleteProduct(ctx, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
		}
		return nil
	})
}

// SetYearlyPrice publishes or revises the price for one product year.
func (s *service) SetYearlyPrice(ctx context.Context, productID uuid.UUID, input PriceInput) (*models.ProductPrice, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if err := validatePrices([]PriceInput{input}); err != nil {
		return nil, err
	}

	var result *models.ProductPrice
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindProduct(ctx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		existing, err := repo.FindPrice(ctx, productID, input.Year)
		switch {
		case err == nil:
			if err := repo.UpdatePrice(ctx, existing.ID, map[string]any{"price_per_kg": input.PricePerKG}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update price")
			}
			existing.PricePerKG = input.PricePerKG
			result = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			price := &models.ProductPrice{
				ID:         uuid.New(),
				ProductID:  productID,
				Year:       input.Year,
				PricePerKG: input.PricePerKG,
			}
			if err := repo.CreatePrice(ctx, price); err != nil {
				if db.IsUniqueViolation(err, priceYearConstraint) {
					return pkgerrors.New(pkgerrors.CodeConflict,
						fmt.Sprintf("price for year %d was published concurrently", input.Year))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create price")
			}
			result = price
			return nil
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price")
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UnitPriceFor reads the published price per kilogram for one product year.
// It reports gorm.ErrRecordNotFound untouched so callers can classify a
// missing price themselves.
func (s *service) UnitPriceFor(ctx context.Context, tx *gorm.DB, productID uuid.UUID, year int) (decimal.Decimal, error) {
	price, err := s.repo.WithTx(tx).FindPrice(ctx, productID, year)
	if err != nil {
		return decimal.Zero, err
	}
	return price.PricePerKG, nil
}
