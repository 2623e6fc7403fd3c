package distributors

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

// Service defines distributor counterparty operations.
type Service interface {
	CreateDistributor(ctx context.Context, input CreateDistributorInput) (*models.Distributor, error)
	GetDistributor(ctx context.Context, distributorID uuid.UUID) (*models.Distributor, error)
	ListDistributors(ctx context.Context, query string) ([]models.Distributor, error)
	UpdateDistributor(ctx context.Context, distributorID uuid.UUID, input UpdateDistributorInput) error
	DeleteDistributor(ctx context.Context, distributorID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds a distributor service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("distributors repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) CreateDistributor(ctx context.Context, input CreateDistributorInput) (*models.Distributor, error) {
	if strings.TrimSpace(input.BusinessName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name required")
	}

	distributor := &models.Distributor{
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
	if _, err := s.repo.CreateDistributor(ctx, distributor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create distributor")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "distributor_id", distributor.ID.String()), "distributor.created")
	}
	return distributor, nil
}

func (s *service) GetDistributor(ctx context.Context, distributorID uuid.UUID) (*models.Distributor, error) {
	if distributorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "distributor id required")
	}
	distributor, err := s.repo.FindDistributor(ctx, distributorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "distributor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load distributor")
	}
	return distributor, nil
}

func (s *service) ListDistributors(ctx context.Context, query string) ([]models.Distributor, error) {
	distributors, err := s.repo.ListDistributors(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list distributors")
	}
	return distributors, nil
}

func (s *service) UpdateDistributor(ctx context.Context, distributorID uuid.UUID, input UpdateDistributorInput) error {
	if distributorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "distributor id required")
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
		if _, err := repo.FindDistributor(ctx, distributorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "distributor not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load distributor")
		}
		if err := repo.UpdateDistributor(ctx, distributorID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update distributor")
		}
		return nil
	})
}

func (s *service) DeleteDistributor(ctx context.Context, distributorID uuid.UUID) error {
	if distributorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "distributor id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindDistributor(ctx, distributorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "distributor not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load distributor")
		}

		refs, err := repo.CountOrderRefs(ctx, distributorID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count order references")
		}
		if refs > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "distributor is referenced by purchase orders").
				WithDetails(map[string]any{"order_count": refs})
		}

		if err := repo.DeleteDistributor(ctx, distributorID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete distributor")
		}
		return nil
	})
}
