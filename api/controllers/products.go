package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veldtrade/procurement-backend/api/responses"
	"github.com/veldtrade/procurement-backend/api/validators"
	productsvc "github.com/veldtrade/procurement-backend/internal/products"
	pkgerrors "github.com/veldtrade/procurement-backend/pkg/errors"
	"github.com/veldtrade/procurement-backend/pkg/logger"
)

type productPriceRequest struct {
	Year       int    `json:"year" validate:"required,gte=2000,lte=2100"`
	PricePerKG string `json:"price_per_kg" validate:"required"`
}

type createProductRequest struct {
	ProductCode string                `json:"product_code" validate:"required,max=64"`
	Description string                `json:"description" validate:"required,max=512"`
	Prices      []productPriceRequest `json:"prices,omitempty" validate:"omitempty,dive"`
}

type updateProductRequest struct {
	ProductCode *string `json:"product_code,omitempty" validate:"omitempty,max=64"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=512"`
}

func (r productPriceRequest) toPriceInput() (productsvc.PriceInput, error) {
	price, err := decimal.NewFromString(r.PricePerKG)
	if err != nil {
		return productsvc.PriceInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price_per_kg")
	}
	return productsvc.PriceInput{Year: r.Year, PricePerKG: price}, nil
}

// CreateProduct adds a catalog entry with optional yearly prices.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.CreateProductInput{
			ProductCode: payload.ProductCode,
			Description: payload.Description,
		}
		for _, price := range payload.Prices {
			parsed, err := price.toPriceInput()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Prices = append(input.Prices, parsed)
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// GetProduct returns one catalog entry with its yearly prices.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parsePathUUID(r, "productID", "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ListProducts returns the catalog, optionally filtered by a search term.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := validators.SanitizeString(r.URL.Query().Get("q"), 64)

		products, err := svc.ListProducts(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"products": products})
	}
}

// UpdateProduct patches catalog fields.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parsePathUUID(r, "productID", "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.UpdateProductInput{
			ProductCode: payload.ProductCode,
			Description: payload.Description,
		}
		if err := svc.UpdateProduct(r.Context(), productID, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// DeleteProduct removes a catalog entry unless purchase orders reference it.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parsePathUUID(r, "productID", "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// SetProductPrice publishes or revises the price for one product year.
func SetProductPrice(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parsePathUUID(r, "productID", "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productPriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toPriceInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := svc.SetYearlyPrice(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, price)
	}
}

func parsePathUUID(r *http.Request, param, label string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+label)
	}
	return id, nil
}
