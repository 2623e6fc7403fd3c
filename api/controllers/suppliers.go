package controllers

import (
	"net/http"

	"github.com/veldtrade/procurement-backend/api/responses"
	"github.com/veldtrade/procurement-backend/api/validators"
	suppliersvc "github.com/veldtrade/procurement-backend/internal/suppliers"
	pkgerrors "github.com/veldtrade/procurement-backend/pkg/errors"
	"github.com/veldtrade/procurement-backend/pkg/logger"
)

type contactRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email"`
	Telephone string `json:"telephone" validate:"required,max=64"`
}

type createSupplierRequest struct {
	BusinessName      string         `json:"business_name" validate:"required,max=255"`
	RegisteredAddress string         `json:"registered_address" validate:"required,max=512"`
	Country           string         `json:"country" validate:"required,max=128"`
	VATNumber         string         `json:"vat_number" validate:"required,max=64"`
	SalesContact      contactRequest `json:"sales_contact" validate:"required"`
	LogisticsContact  contactRequest `json:"logistics_contact" validate:"required"`
}

type updateSupplierRequest struct {
	BusinessName      *string         `json:"business_name,omitempty" validate:"omitempty,max=255"`
	RegisteredAddress *string         `json:"registered_address,omitempty" validate:"omitempty,max=512"`
	Country           *string         `json:"country,omitempty" validate:"omitempty,max=128"`
	VATNumber         *string         `json:"vat_number,omitempty" validate:"omitempty,max=64"`
	SalesContact      *contactRequest `json:"sales_contact,omitempty"`
	LogisticsContact  *contactRequest `json:"logistics_contact,omitempty"`
}

func (c contactRequest) toSupplierContact() suppliersvc.ContactInput {
	return suppliersvc.ContactInput{Name: c.Name, Email: c.Email, Telephone: c.Telephone}
}

// CreateSupplier registers a supply-side counterparty.
func CreateSupplier(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		var payload createSupplierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplier, err := svc.CreateSupplier(r.Context(), suppliersvc.CreateSupplierInput{
			BusinessName:      payload.BusinessName,
			RegisteredAddress: payload.RegisteredAddress,
			Country:           payload.Country,
			VATNumber:         payload.VATNumber,
			SalesContact:      payload.SalesContact.toSupplierContact(),
			LogisticsContact:  payload.LogisticsContact.toSupplierContact(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, supplier)
	}
}

// GetSupplier returns one supplier.
func GetSupplier(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := parsePathUUID(r, "supplierID", "supplier id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplier, err := svc.GetSupplier(r.Context(), supplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, supplier)
	}
}

// ListSuppliers returns suppliers, optionally filtered by a search term.
func ListSuppliers(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := validators.SanitizeString(r.URL.Query().Get("q"), 64)

		suppliers, err := svc.ListSuppliers(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"suppliers": suppliers})
	}
}

// UpdateSupplier patches counterparty fields.
func UpdateSupplier(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := parsePathUUID(r, "supplierID", "supplier id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateSupplierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := suppliersvc.UpdateSupplierInput{
			BusinessName:      payload.BusinessName,
			RegisteredAddress: payload.RegisteredAddress,
			Country:           payload.Country,
			VATNumber:         payload.VATNumber,
		}
		if payload.SalesContact != nil {
			contact := payload.SalesContact.toSupplierContact()
			input.SalesContact = &contact
		}
		if payload.LogisticsContact != nil {
			contact := payload.LogisticsContact.toSupplierContact()
			input.LogisticsContact = &contact
		}

		if err := svc.UpdateSupplier(r.Context(), supplierID, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// DeleteSupplier removes a supplier unless purchase orders reference it.
func DeleteSupplier(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := parsePathUUID(r, "supplierID", "supplier id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteSupplier(r.Context(), supplierID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
