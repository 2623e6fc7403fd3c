package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/veldtrade/procurement-backend/pkg/db"
	"github.com/veldtrade/procurement-backend/pkg/db/models"
	"github.com/veldtrade/procurement-backend/pkg/enums"
	pkgerrors "github.com/veldtrade/procurement-backend/pkg/errors"
	"github.com/veldtrade/procurement-backend/pkg/logger"
	"github.com/veldtrade/procurement-backend/pkg/metrics"
	"github.com/veldtrade/procurement-backend/pkg/pagination"
)

const poNumberConstraint = "uq_purchase_orders_po_number"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PriceResolver returns the catalog price per kilogram for a product in a
// given calendar year. Implementations return gorm.ErrRecordNotFound when no
// price is published for that year.
type PriceResolver interface {
	UnitPriceFor(ctx context.Context, tx *gorm.DB, productID uuid.UUID, year int) (decimal.Decimal, error)
}

// Service defines purchase order operations beyond repository reads.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.PurchaseOrder, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error)
	ListOrders(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, input UpdateOrderInput) error
	UpdateStatus(ctx context.Context, input StatusUpdateInput) error
	UpdateLineItemDelivery(ctx context.Context, input DeliveryUpdateInput) error
	RemoveLineItem(ctx context.Context, orderID, itemID uuid.UUID) error
	CancelOrDelete(ctx context.Context, orderID uuid.UUID) (CancelOutcome, error)
	CanCancel(ctx context.Context, orderID uuid.UUID) (bool, error)
	Reconcile(ctx context.Context, distributorOrderID uuid.UUID) (*FulfillmentReport, error)
	PipelineForecast(ctx context.Context, months int) (*PipelineForecast, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	prices  PriceResolver
	metrics *metrics.OrderMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds a purchase order service with the required dependencies.
func NewService(repo Repository, tx txRunner, prices PriceResolver, m *metrics.OrderMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if prices == nil {
		return nil, fmt.Errorf("price resolver required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		prices:  prices,
		metrics: m,
		logg:    logg,
		now:     time.Now,
	}, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.PurchaseOrder, error) {
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order category")
	}
	if input.CreatedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "creator required")
	}
	if err := validateCounterparty(input); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one line item")
	}
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	var created *models.PurchaseOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if input.LinkedOrderID != nil {
			if err := s.checkLinkTarget(ctx, repo, input); err != nil {
				return err
			}
		}

		items, total, err := s.buildItems(ctx, tx, input.Items)
		if err != nil {
			return err
		}

		prefix := input.Category.Prefix()
		highest, err := repo.HighestOrderNumber(ctx, prefix)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read order number sequence")
		}
		number, err := nextOrderNumber(prefix, highest)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "derive next order number")
		}

		order := &models.PurchaseOrder{
			ID:                   uuid.New(),
			PONumber:             number,
			Category:             input.Category,
			SupplierID:           input.SupplierID,
			DistributorID:        input.DistributorID,
			Status:               enums.OrderStatusNew,
			LinkedOrderID:        input.LinkedOrderID,
			CreatedBy:            input.CreatedBy,
			Notes:                input.Notes,
			RequiredDeliveryDate: input.RequiredDeliveryDate,
			TotalValue:           total,
		}
		if _, err := repo.CreatePurchaseOrder(ctx, order); err != nil {
			if db.IsUniqueViolation(err, poNumberConstraint) {
				s.metrics.IncSequenceCollision()
				return pkgerrors.Wrap(pkgerrors.CodeSequenceCollision, err,
					fmt.Sprintf("order number %s already taken", number))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase order")
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		order.Items = items
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncCreated(created.Category.String())
	if s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, created.ID.String())
		logCtx = s.logg.WithOrderNumber(logCtx, created.PONumber)
		s.logg.Info(logCtx, "order.created")
	}
	return created, nil
}

// validateCounterparty enforces that exactly one counterparty is set and
// that it matches the category: distributor orders carry a distributor,
// supplier orders carry a supplier.
func validateCounterparty(input CreateOrderInput) error {
	switch input.Category {
	case enums.OrderCategoryDistributor:
		if input.DistributorID == nil || input.SupplierID != nil {
			return pkgerrors.New(pkgerrors.CodeConsistency, "distributor orders require a distributor and no supplier")
		}
	case enums.OrderCategorySupplier:
		if input.SupplierID == nil || input.DistributorID != nil {
			return pkgerrors.New(pkgerrors.CodeConsistency, "supplier orders require a supplier and no distributor")
		}
	}
	return nil
}

func validateItems(items []CreateOrderItemInput) error {
	var errs error
	for i, item := range items {
		if item.ProductID == uuid.Nil {
			errs = multierr.Append(errs, fmt.Errorf("item %d: product required", i))
		}
		if !item.QuantityKG.IsPositive() {
			errs = multierr.Append(errs, fmt.Errorf("item %d: quantity must be positive", i))
		}
		if item.RequiredDeliveryDate.IsZero() {
			errs = multierr.Append(errs, fmt.Errorf("item %d: required delivery date required", i))
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			errs = multierr.Append(errs, fmt.Errorf("item %d: unit price must not be negative", i))
		}
	}
	if errs != nil {
		details := make([]string, 0)
		for _, e := range multierr.Errors(errs) {
			details = append(details, e.Error())
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid line items").WithDetails(map[string]any{"items": details})
	}
	return nil
}

// checkLinkTarget verifies that a linked order reference points from a
// supplier order to an existing distributor order.
func (s *service) checkLinkTarget(ctx context.Context, repo Repository, input CreateOrderInput) error {
	if input.Category != enums.OrderCategorySupplier {
		return pkgerrors.New(pkgerrors.CodeConsistency, "only supplier orders may link to a distributor order")
	}
	linked, err := repo.FindOrder(ctx, *input.LinkedOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "linked order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load linked order")
	}
	if !linked.IsDistributorOrder() {
		return pkgerrors.New(pkgerrors.CodeConsistency, "linked order is not a distributor order")
	}
	return nil
}

// buildItems snapshots a unit price onto each line and returns the lines
// plus the order total. Prices missing an explicit override are resolved
// from the catalog for the current year.
func (s *service) buildItems(ctx context.Context, tx *gorm.DB, inputs []CreateOrderItemInput) ([]models.PurchaseOrderItem, decimal.Decimal, error) {
	year := s.now().Year()
	items := make([]models.PurchaseOrderItem, 0, len(inputs))
	total := decimal.Zero

	for _, in := range inputs {
		unitPrice := decimal.Zero
		if in.UnitPrice != nil {
			unitPrice = *in.UnitPrice
		} else {
			resolved, err := s.prices.UnitPriceFor(ctx, tx, in.ProductID, year)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation,
						fmt.Sprintf("no price for product %s in year %d", in.ProductID, year))
				}
				return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve product price")
			}
			unitPrice = resolved
		}

		lineTotal := in.QuantityKG.Mul(unitPrice).Round(2)
		items = append(items, models.PurchaseOrderItem{
			ID:                   uuid.New(),
			ProductID:            in.ProductID,
			QuantityKG:           in.QuantityKG,
			RequiredDeliveryDate: in.RequiredDeliveryDate,
			UnitPrice:            unitPrice,
			TotalValue:           lineTotal,
			QualityStatus:        enums.QualityStatusPending,
		})
		total = total.Add(lineTotal)
	}
	return items, total.Round(2), nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindOrderDetail(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	now := s.now()
	detail := &OrderDetail{
		Order:          order,
		StatusDisplay:  order.Status.DisplayName(),
		CanBeCancelled: CanCancel(order.Status),
		Items:          make([]LineItemView, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		detail.Items = append(detail.Items, newLineItemView(item, now))
	}

	if order.IsDistributorOrder() {
		supply, err := s.repo.FindLinkedSupplierItems(ctx, order.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load linked supplier items")
		}
		detail.Fulfillment = buildFulfillmentReport(order, order.Items, supply)
	}
	return detail, nil
}

func (s *service) ListOrders(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	list, err := s.repo.ListOrders(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) UpdateOrder(ctx context.Context, orderID uuid.UUID, input UpdateOrderInput) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	updates := map[string]any{}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.RequiredDeliveryDate != nil {
		updates["required_delivery_date"] = *input.RequiredDeliveryDate
	}
	if len(updates) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no updatable fields provided")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be modified")
		}
		if err := repo.UpdateOrder(ctx, orderID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		return nil
	})
}

func (s *service) UpdateStatus(ctx context.Context, input StatusUpdateInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	changed := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status == input.Status {
			return nil
		}
		if !CanTransition(order.Status, input.Status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed").
				WithDetails(map[string]any{
					"from":    order.Status,
					"to":      input.Status,
					"allowed": AllowedTransitions(order.Status),
				})
		}
		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{"status": input.Status}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		changed = true
		return nil
	})
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	s.metrics.IncTransition(input.Status.String())
	if s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, input.OrderID.String())
		if input.ActorRole != "" {
			logCtx = s.logg.WithActorRole(logCtx, input.ActorRole)
		}
		s.logg.Info(logCtx, "order.status_updated")
	}
	return nil
}

func (s *service) UpdateLineItemDelivery(ctx context.Context, input DeliveryUpdateInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ItemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "line item id required")
	}
	if input.DeliveredQuantityKG.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivered quantity must not be negative")
	}
	if input.QualityStatus != nil && !input.QualityStatus.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid quality status")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		item, err := repo.FindOrderItem(ctx, input.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load line item")
		}
		if item.OrderID != order.ID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found on order")
		}

		// Delivered quantity may drift in either direction as corrections
		// come in, and may exceed the requested quantity.
		updates := map[string]any{
			"delivered_quantity_kg": input.DeliveredQuantityKG,
		}
		if input.ActualDeliveryDate != nil {
			updates["actual_delivery_date"] = *input.ActualDeliveryDate
		}
		if input.QualityStatus != nil {
			updates["quality_status"] = *input.QualityStatus
		}
		if input.QualityNotes != nil {
			updates["quality_notes"] = *input.QualityNotes
		}
		if err := repo.UpdateOrderItem(ctx, item.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update line item delivery")
		}
		return nil
	})
}

func (s *service) RemoveLineItem(ctx context.Context, orderID, itemID uuid.UUID) error {
	if orderID == uuid.Nil || itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id and line item id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be modified")
		}
		item, err := repo.FindOrderItem(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load line item")
		}
		if item.OrderID != order.ID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found on order")
		}

		if err := repo.DeleteOrderItem(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete line item")
		}

		remaining, err := repo.FindItemsByOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload line items")
		}
		total := decimal.Zero
		for _, rem := range remaining {
			total = total.Add(rem.TotalValue)
		}
		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{"total_value": total.Round(2)}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order total")
		}
		return nil
	})
}

func (s *service) CancelOrDelete(ctx context.Context, orderID uuid.UUID) (CancelOutcome, error) {
	if orderID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var outcome CancelOutcome
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if !CanCancel(order.Status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled").
				WithDetails(map[string]any{"status": order.Status})
		}

		// Orders still in "new" never entered the shared pipeline and are
		// removed outright together with their items.
		if order.Status == enums.OrderStatusNew {
			if err := repo.DeleteOrder(ctx, order.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
			}
			outcome = CancelOutcomeDeleted
			return nil
		}

		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{"status": enums.OrderStatusCancelled}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		outcome = CancelOutcomeCancelled
		return nil
	})
	if err != nil {
		return "", err
	}

	if outcome == CancelOutcomeCancelled {
		s.metrics.IncTransition(enums.OrderStatusCancelled.String())
	}
	if s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, orderID.String())
		s.logg.Info(logCtx, fmt.Sprintf("order.%s", outcome))
	}
	return outcome, nil
}

func (s *service) CanCancel(ctx context.Context, orderID uuid.UUID) (bool, error) {
	if orderID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return CanCancel(order.Status), nil
}

func (s *service) Reconcile(ctx context.Context, distributorOrderID uuid.UUID) (*FulfillmentReport, error) {
	if distributorOrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	start := s.now()
	var report *FulfillmentReport

	// One transaction so demand and supply lines come from the same snapshot.
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, distributorOrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if !order.IsDistributorOrder() {
			return pkgerrors.New(pkgerrors.CodeConsistency, "fulfillment reconciliation requires a distributor order")
		}

		demand, err := repo.FindItemsByOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
		}
		supply, err := repo.FindLinkedSupplierItems(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load linked supplier items")
		}

		report = buildFulfillmentReport(order, demand, supply)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveReconcile(time.Since(start))
	if report.HasShortages {
		s.metrics.IncShortageDetected()
	}
	return report, nil
}

func (s *service) PipelineForecast(ctx context.Context, months int) (*PipelineForecast, error) {
	if months <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "forecast horizon must be positive")
	}

	from := s.now()
	to := from.AddDate(0, months, 0)

	forecast := &PipelineForecast{
		Months:            months,
		From:              from,
		To:                to,
		DistributorOrders: []ForecastOrder{},
		SupplierOrders:    []OrderSummary{},
		Buckets:           []ForecastBucket{},
		Summary: ForecastSummary{
			TotalPODValue: decimal.Zero,
			TotalPOSValue: decimal.Zero,
		},
	}

	// One transaction so every fulfillment annotation reads the same
	// snapshot as the pipeline rows.
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		rows, err := repo.FindActiveOrdersDueBetween(ctx, from, to)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active orders")
		}

		index := map[string]int{}
		for i := range rows {
			order := &rows[i]
			if order.RequiredDeliveryDate == nil {
				continue
			}
			month := order.RequiredDeliveryDate.Format("2006-01")
			pos, ok := index[month]
			if !ok {
				pos = len(forecast.Buckets)
				index[month] = pos
				forecast.Buckets = append(forecast.Buckets, ForecastBucket{Month: month, TotalValue: decimal.Zero})
			}
			forecast.Buckets[pos].OrderCount++
			forecast.Buckets[pos].TotalValue = forecast.Buckets[pos].TotalValue.Add(order.TotalValue)

			if order.IsDistributorOrder() {
				supply, err := repo.FindLinkedSupplierItems(ctx, order.ID)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load linked supplier items")
				}
				report := buildFulfillmentReport(order, order.Items, supply)
				forecast.DistributorOrders = append(forecast.DistributorOrders, ForecastOrder{
					OrderSummary: summarize(order),
					Fulfillment:  report,
				})
				forecast.Summary.TotalPODOrders++
				forecast.Summary.TotalPODValue = forecast.Summary.TotalPODValue.Add(order.TotalValue)
				if report.HasShortages {
					forecast.Summary.OrdersWithShortages++
				}
				continue
			}

			forecast.SupplierOrders = append(forecast.SupplierOrders, summarize(order))
			forecast.Summary.TotalPOSOrders++
			forecast.Summary.TotalPOSValue = forecast.Summary.TotalPOSValue.Add(order.TotalValue)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return forecast, nil
}
