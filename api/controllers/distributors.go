package controllers

import (
	"net/http"

	"github.com/veldtrade/procurement-backend/api/responses"
	"github.com/veldtrade/procurement-backend/api/validators"
	distributorsvc "github.com/veldtrade/procurement-backend/internal/distributors"
	pkgerrors "github.com/veldtrade/procurement-backend/pkg/errors"
	"github.com/veldtrade/procurement-backend/pkg/logger"
)

type createDistributorRequest struct {
	BusinessName      string         `json:"business_name" validate:"required,max=255"`
	RegisteredAddress string         `json:"registered_address" validate:"required,max=512"`
	Country           string         `json:"country" validate:"required,max=128"`
	VATNumber         string         `json:"vat_number" validate:"required,max=64"`
	SalesContact      contactRequest `json:"sales_contact" validate:"required"`
	LogisticsContact  contactRequest `json:"logistics_contact" validate:"required"`
}

type updateDistributorRequest struct {
	BusinessName      *string         `json:"business_name,omitempty" validate:"omitempty,max=255"`
	RegisteredAddress *string         `json:"registered_address,omitempty" validate:"omitempty,max=512"`
	Country           *string         `json:"country,omitempty" validate:"omitempty,max=128"`
	VATNumber         *string         `json:"vat_number,omitempty" validate:"omitempty,max=64"`
	SalesContact      *contactRequest `json:"sales_contact,omitempty"`
	LogisticsContact  *contactRequest `json:"logistics_contact,omitempty"`
}

func (c contactRequest) toDistributorContact() distributorsvc.ContactInput {
	return distributorsvc.ContactInput{Name: c.Name, Email: c.Email, Telephone: c.Telephone}
}

// CreateDistributor registers a demand-side counterparty.
func CreateDistributor(svc distributorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "distributor service unavailable"))
			return
		}

		var payload createDistributorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		distributor, err := svc.CreateDistributor(r.Context(), distributorsvc.CreateDistributorInput{
			BusinessName:      payload.BusinessName,
			RegisteredAddress: payload.RegisteredAddress,
			Country:           payload.Country,
			VATNumber:         payload.VATNumber,
			SalesContact:      payload.SalesContact.toDistributorContact(),
			LogisticsContact:  payload.LogisticsContact.toDistributorContact(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, distributor)
	}
}

// GetDistributor returns one distributor.
func GetDistributor(svc distributorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		distributorID, err := parsePathUUID(r, "distributorID", "distributor id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		distributor, err := svc.GetDistributor(r.Context(), distributorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, distributor)
	}
}

// ListDistributors returns distributors, optionally filtered by a search term.
func ListDistributors(svc distributorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := validators.SanitizeString(r.URL.Query().Get("q"), 64)

		distributors, err := svc.ListDistributors(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"distributors": distributors})
	}
}

// UpdateDistributor patches counterparty fields.
func UpdateDistributor(svc distributorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		distributorID, err := parsePathUUID(r, "distributorID", "distributor id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateDistributorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := distributorsvc.UpdateDistributorInput{
			BusinessName:      payload.BusinessName,
			RegisteredAddress: payload.RegisteredAddress,
			Country:           payload.Country,
			VATNumber:         payload.VATNumber,
		}
		if payload.SalesContact != nil {
			contact := payload.SalesContact.toDistributorContact()
			input.SalesContact = &contact
		}
		if payload.LogisticsContact != nil {
			contact := payload.LogisticsContact.toDistributorContact()
			input.LogisticsContact = &contact
		}

		if err := svc.UpdateDistributor(r.Context(), distributorID, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// DeleteDistributor removes a distributor unless purchase orders reference it.
func DeleteDistributor(svc distributorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		distributorID, err := parsePathUUID(r, "distributorID", "distributor id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteDistributor(r.Context(), distributorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
