package purchaseorders

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veldtrade/procurement-backend/api/middleware"
	"github.com/veldtrade/procurement-backend/api/responses"
	"github.com/veldtrade/procurement-backend/api/validators"
	internalorders "github.com/veldtrade/procurement-backend/internal/orders"
	"github.com/veldtrade/procurement-backend/pkg/config"
	"github.com/veldtrade/procurement-backend/pkg/enums"
	pkgerrors "github.com/veldtrade/procurement-backend/pkg/errors"
	"github.com/veldtrade/procurement-backend/pkg/logger"
	"github.com/veldtrade/procurement-backend/pkg/pagination"
)

const dateLayout = "2006-01-02"

type createItemRequest struct {
	ProductID            string  `json:"product_id" validate:"required,uuid"`
	QuantityKG           string  `json:"quantity_kg" validate:"required"`
	RequiredDeliveryDate string  `json:"required_delivery_date" validate:"required"`
	UnitPrice            *string `json:"unit_price,omitempty"`
}

type createOrderRequest struct {
	Category             string              `json:"category" validate:"required,oneof=distributor_order supplier_order"`
	SupplierID           *string             `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
	DistributorID        *string             `json:"distributor_id,omitempty" validate:"omitempty,uuid"`
	LinkedOrderID        *string             `json:"linked_order_id,omitempty" validate:"omitempty,uuid"`
	CreatedBy            string              `json:"created_by" validate:"required,uuid"`
	Notes                *string             `json:"notes,omitempty" validate:"omitempty,max=2048"`
	RequiredDeliveryDate *string             `json:"required_delivery_date,omitempty"`
	Items                []createItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (r createOrderRequest) toCreateInput() (internalorders.CreateOrderInput, error) {
	category, err := enums.ParseOrderCategory(r.Category)
	if err != nil {
		return internalorders.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}
	createdBy, err := uuid.Parse(r.CreatedBy)
	if err != nil {
		return internalorders.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid created_by")
	}

	input := internalorders.CreateOrderInput{
		Category:  category,
		CreatedBy: createdBy,
		Notes:     r.Notes,
	}
	if input.SupplierID, err = parseOptionalUUID(r.SupplierID, "supplier_id"); err != nil {
		return internalorders.CreateOrderInput{}, err
	}
	if input.DistributorID, err = parseOptionalUUID(r.DistributorID, "distributor_id"); err != nil {
		return internalorders.CreateOrderInput{}, err
	}
	if input.LinkedOrderID, err = parseOptionalUUID(r.LinkedOrderID, "linked_order_id"); err != nil {
		return internalorders.CreateOrderInput{}, err
	}
	if input.RequiredDeliveryDate, err = parseOptionalDate(r.RequiredDeliveryDate, "required_delivery_date"); err != nil {
		return internalorders.CreateOrderInput{}, err
	}

	for _, item := range r.Items {
		parsed, err := item.toItemInput()
		if err != nil {
			return internalorders.CreateOrderInput{}, err
		}
		input.Items = append(input.Items, parsed)
	}
	return input, nil
}

func (r createItemRequest) toItemInput() (internalorders.CreateOrderItemInput, error) {
	productID, err := uuid.Parse(r.ProductID)
	if err != nil {
		return internalorders.CreateOrderItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product_id")
	}
	quantity, err := decimal.NewFromString(r.QuantityKG)
	if err != nil {
		return internalorders.CreateOrderItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid quantity_kg")
	}
	due, err := time.Parse(dateLayout, r.RequiredDeliveryDate)
	if err != nil {
		return internalorders.CreateOrderItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid required_delivery_date")
	}

	input := internalorders.CreateOrderItemInput{
		ProductID:            productID,
		QuantityKG:           quantity,
		RequiredDeliveryDate: due,
	}
	if r.UnitPrice != nil {
		price, err := decimal.NewFromString(*r.UnitPrice)
		if err != nil {
			return internalorders.CreateOrderItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit_price")
		}
		input.UnitPrice = &price
	}
	return input, nil
}

// Create opens a purchase order with its line items.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// Get returns one order with derived line item facts and, for distributor
// orders, the current fulfillment report.
func Get(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

// List returns a cursor-paginated order page with optional filters.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		filters, err := buildFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListOrders(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func buildFilters(r *http.Request) (internalorders.OrderFilters, error) {
	filters := internalorders.OrderFilters{
		Query: validators.SanitizeString(r.URL.Query().Get("q"), 64),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		category, err := enums.ParseOrderCategory(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category filter")
		}
		filters.Category = &category
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.Status = &status
	}

	var err error
	if filters.SupplierID, err = parseOptionalUUID(optionalQuery(r, "supplier_id"), "supplier_id"); err != nil {
		return filters, err
	}
	if filters.DistributorID, err = parseOptionalUUID(optionalQuery(r, "distributor_id"), "distributor_id"); err != nil {
		return filters, err
	}
	if filters.DateFrom, err = parseOptionalDate(optionalQuery(r, "date_from"), "date_from"); err != nil {
		return filters, err
	}
	if filters.DateTo, err = parseOptionalDate(optionalQuery(r, "date_to"), "date_to"); err != nil {
		return filters, err
	}
	return filters, nil
}

type updateOrderRequest struct {
	Notes                *string `json:"notes,omitempty" validate:"omitempty,max=2048"`
	RequiredDeliveryDate *string `json:"required_delivery_date,omitempty"`
}

// Update patches notes and delivery date on a non-terminal order.
func Update(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalorders.UpdateOrderInput{Notes: payload.Notes}
		if input.RequiredDeliveryDate, err = parseOptionalDate(payload.RequiredDeliveryDate, "required_delivery_date"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateOrder(r.Context(), orderID, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

type statusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus applies one lifecycle transition.
func UpdateStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload statusUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		input := internalorders.StatusUpdateInput{
			OrderID:   orderID,
			Status:    status,
			ActorRole: middleware.RoleFromContext(r.Context()),
		}
		if err := svc.UpdateStatus(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": status.String()})
	}
}

type deliveryUpdateRequest struct {
	DeliveredQuantityKG string  `json:"delivered_quantity_kg" validate:"required"`
	ActualDeliveryDate  *string `json:"actual_delivery_date,omitempty"`
	QualityStatus       *string `json:"quality_status,omitempty"`
	QualityNotes        *string `json:"quality_notes,omitempty" validate:"omitempty,max=2048"`
}

// UpdateDelivery records delivery progress against one line item.
func UpdateDelivery(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := parsePathUUID(r, "itemID", "item id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload deliveryUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		delivered, err := decimal.NewFromString(payload.DeliveredQuantityKG)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivered_quantity_kg"))
			return
		}

		input := internalorders.DeliveryUpdateInput{
			OrderID:             orderID,
			ItemID:              itemID,
			DeliveredQuantityKG: delivered,
			QualityNotes:        payload.QualityNotes,
		}
		if input.ActualDeliveryDate, err = parseOptionalDate(payload.ActualDeliveryDate, "actual_delivery_date"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.QualityStatus != nil {
			status, err := enums.ParseQualityStatus(*payload.QualityStatus)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid quality_status"))
				return
			}
			input.QualityStatus = &status
		}

		if err := svc.UpdateLineItemDelivery(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// RemoveItem deletes a line item and recomputes the order total.
func RemoveItem(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := parsePathUUID(r, "itemID", "item id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveLineItem(r.Context(), orderID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

// Cancel resolves a cancellation request: orders still in "new" are deleted,
// everything else cancellable flips to cancelled.
func Cancel(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outcome, err := svc.CancelOrDelete(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"outcome": string(outcome)})
	}
}

// CanCancel reports whether the order is still cancellable.
func CanCancel(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		can, err := svc.CanCancel(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"can_cancel": can})
	}
}

// Reconcile compares a distributor order's demand with linked supplier
// commitments and deliveries.
func Reconcile(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Reconcile(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// Forecast buckets active orders by required delivery month.
func Forecast(svc internalorders.Service, cfg config.ForecastConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		months, err := validators.ParseQueryInt(r, "months", cfg.DefaultMonths, 1, cfg.MaxMonths)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		forecast, err := svc.PipelineForecast(r.Context(), months)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, forecast)
	}
}

func parseOrderID(r *http.Request) (uuid.UUID, error) {
	return parsePathUUID(r, "orderID", "order id")
}

func parsePathUUID(r *http.Request, param, label string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+label)
	}
	return id, nil
}

func parseOptionalUUID(raw *string, label string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+label)
	}
	return &id, nil
}

func parseOptionalDate(raw *string, label string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+label)
	}
	return &t, nil
}

func optionalQuery(r *http.Request, key string) *string {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return nil
	}
	return &value
}
