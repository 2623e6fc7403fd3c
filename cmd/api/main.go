package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/veldtrade/procurement-backend/api/routes"
	"github.com/veldtrade/procurement-backend/internal/distributors"
	"github.com/veldtrade/procurement-backend/internal/orders"
	"github.com/veldtrade/procurement-backend/internal/products"
	"github.com/veldtrade/procurement-backend/internal/suppliers"
	"github.com/veldtrade/procurement-backend/internal/users"
	"github.com/veldtrade/procurement-backend/pkg/config"
	"github.com/veldtrade/procurement-backend/pkg/db"
	"github.com/veldtrade/procurement-backend/pkg/logger"
	"github.com/veldtrade/procurement-backend/pkg/metrics"
	"github.com/veldtrade/procurement-backend/pkg/migrate"
	pkgredis "github.com/veldtrade/procurement-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = pkgredis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, idempotent replay disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	orderMetrics := metrics.NewOrderMetrics(registry)

	gormDB := dbClient.DB()

	productsSvc, err := products.NewService(products.NewRepository(gormDB), dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}
	suppliersSvc, err := suppliers.NewService(suppliers.NewRepository(gormDB), dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create suppliers service", err)
		os.Exit(1)
	}
	distributorsSvc, err := distributors.NewService(distributors.NewRepository(gormDB), dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create distributors service", err)
		os.Exit(1)
	}
	usersSvc, err := users.NewService(users.NewRepository(gormDB), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}
	ordersSvc, err := orders.NewService(orders.NewRepository(gormDB), dbClient, productsSvc, orderMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Registry:     registry,
			Orders:       ordersSvc,
			Products:     productsSvc,
			Suppliers:    suppliersSvc,
			Distributors: distributorsSvc,
			Users:        usersSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
