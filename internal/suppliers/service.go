package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veldtrade/procurement-backend/pkg/db/models"
	pkgerrors "github.com/veldtrade/procurement-backend/pkg/errors"
	"github.com/veldtrade/procurement-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines supplier counterparty operations.
type Service interface {
	CreateSupplier(ctx context.Context, input CreateSupplierInput) (*models.Supplier, error)
	GetSupplier(ctx context.Context, supplierID uuid.UUID) (*models.Supplier, error)
	ListSuppliers(ctx context.Context, query string) ([]models.Supplier, error)
	UpdateSupplier(ctx context.Context, supplierID uuid.UUID, input UpdateSupplierInput) error
	DeleteSupplier(ctx context.Context, supplierID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds a supplier service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("suppliers repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) CreateSupplier(ctx context.Context, input CreateSupplierInput) (*models.Supplier, error) {
	if strings.TrimSpace(input.BusinessName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name required")
	}

	supplier := &models.Supplier{
		ID:                               uuid.New(),
		BusinessName:                     strings.TrimSpace(input.BusinessName),
		RegisteredAddress:                strings.TrimSpace(input.RegisteredAddress),
		Country:                          strings.TrimSpace(input.Country),
		VATNumber:                        strings.TrimSpace(input.VATNumber),
		PrimarySalesContactName:          input.SalesContact.Name,
		PrimarySalesContactEmail:         input.SalesContact.Email,
		PrimarySalesContactTelephone:     input.SalesContact.Telephone,
		PrimaryLogisticsContactName:      input.LogisticsContact.Name,
		PrimaryLogisticsContactEmail:     input.LogisticsContact.Email,
		PrimaryLogisticsContactTelephone: input.LogisticsContact.Telephone,
	}
	if _, err := s.repo.CreateSupplier(ctx, supplier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supplier")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "supplier_id", supplier.ID.String()), "supplier.created")
	}
	return supplier, nil
}

func (s *service) GetSupplier(ctx context.Context, supplierID uuid.UUID) (*models.Supplier, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	supplier, err := s.repo.FindSupplier(ctx, supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	return supplier, nil
}

func (s *service) ListSuppliers(ctx context.Context, query string) ([]models.Supplier, error) {
	suppliers, err := s.repo.ListSuppliers(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list suppliers")
	}
	return suppliers, nil
}

func (s *service) UpdateSupplier(ctx context.Context, supplierID uuid.UUID, input UpdateSupplierInput) error {
	if supplierID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}

	updates := map[string]any{}
	if input.BusinessName != nil {
		if strings.TrimSpace(*input.BusinessName) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "business name must not be empty")
		}
		updates["business_name"] = strings.TrimSpace(*input.BusinessName)
	}
	if input.RegisteredAddress != nil {
		updates["registered_address"] = strings.TrimSpace(*input.RegisteredAddress)
	}
	if input.Country != nil {
		updates["country"] = strings.TrimSpace(*input.Country)
	}
	if input.VATNumber != nil {
		updates["vat_number"] = strings.TrimSpace(*input.VATNumber)
	}
	if input.SalesContact != nil {
		updates["primary_sales_contact_name"] = input.SalesContact.Name
		updates["primary_sales_contact_email"] = input.SalesContact.Email
		updates["primary_sales_contact_telephone"] = input.SalesContact.Telephone
	}
	if input.LogisticsContact != nil {
		updates["primary_logistics_contact_name"] = input.LogisticsContact.Name
		updates["primary_logistics_contact_email"] = input.LogisticsContact.Email
		updates["primary_logistics_contact_telephone"] = input.LogisticsContact.Telephone
	}
	if len(updates) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no updatable fields provided")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindSupplier(ctx, supplierID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
		}
		if err := repo.UpdateSupplier(ctx, supplierID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update supplier")
		}
		return nil
	})
}

func (s *service) DeleteSupplier(ctx context.Context, supplierID uuid.UUID) error {
	if supplierID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindSupplier(ctx, supplierID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
		}

		refs, err := repo.CountOrderRefs(ctx, supplierID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count order references")
		}
		if refs > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "supplier is referenced by purchase orders").
				WithDetails(map[string]any{"order_count": refs})
		}

		if err := repo.DeleteSupplier(ctx, supplierID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete supplier")
		}
		return nil
	})
}
