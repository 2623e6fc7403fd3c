package controllers

import (
	"net/http"

	"github.com/veldtrade/procurement-backend/api/responses"
	usersvc "github.com/veldtrade/procurement-backend/internal/users"
	"github.com/veldtrade/procurement-backend/pkg/logger"
)

// ListUsers returns the active users available as order creators.
func ListUsers(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.ListUsers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"users": users})
	}
}

// GetUser returns one user record.
func GetUser(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := parsePathUUID(r, "userID", "user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.GetUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}
