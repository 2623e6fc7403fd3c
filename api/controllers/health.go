package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/veldtrade/procurement-backend/api/responses"
	"github.com/veldtrade/procurement-backend/pkg/config"
	pkgerrors "github.com/veldtrade/procurement-backend/pkg/errors"
	"github.com/veldtrade/procurement-backend/pkg/logger"
)

// Pinger covers the dependency checks behind the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Procure-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the database and, when configured, redis. A nil cache
// pinger is skipped.
func HealthReady(cfg *config.Config, database Pinger, cache Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		w.Header().Set("X-Procure-Env", cfg.App.Env)

		if database == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "database unavailable"))
			return
		}
		if err := database.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database ping failed"))
			return
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis ping failed"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
