package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/veldtrade/procurement-backend/api/controllers"
	pocontrollers "github.com/veldtrade/procurement-backend/api/controllers/purchaseorders"
	"github.com/veldtrade/procurement-backend/api/middleware"
	"github.com/veldtrade/procurement-backend/internal/distributors"
	"github.com/veldtrade/procurement-backend/internal/orders"
	"github.com/veldtrade/procurement-backend/internal/products"
	"github.com/veldtrade/procurement-backend/internal/suppliers"
	"github.com/veldtrade/procurement-backend/internal/users"
	"github.com/veldtrade/procurement-backend/pkg/config"
	"github.com/veldtrade/procurement-backend/pkg/logger"
	pkgredis "github.com/veldtrade/procurement-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           controllers.Pinger
	Redis        *pkgredis.Client
	Registry     *prometheus.Registry
	Orders       orders.Service
	Products     products.Service
	Suppliers    suppliers.Service
	Distributors distributors.Service
	Users        users.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, redisPinger(deps.Redis), logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if deps.Redis != nil {
			r.Use(middleware.Idempotency(deps.Redis, logg))
		}

		r.Route("/purchase-orders", func(r chi.Router) {
			r.Post("/", pocontrollers.Create(deps.Orders, logg))
			r.Get("/", pocontrollers.List(deps.Orders, logg))
			r.Get("/forecast", pocontrollers.Forecast(deps.Orders, cfg.Forecast, logg))
			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", pocontrollers.Get(deps.Orders, logg))
				r.Patch("/", pocontrollers.Update(deps.Orders, logg))
				r.Post("/status", pocontrollers.UpdateStatus(deps.Orders, logg))
				r.Post("/cancel", pocontrollers.Cancel(deps.Orders, logg))
				r.Get("/can-cancel", pocontrollers.CanCancel(deps.Orders, logg))
				r.Get("/fulfillment", pocontrollers.Reconcile(deps.Orders, logg))
				r.Patch("/items/{itemID}/delivery", pocontrollers.UpdateDelivery(deps.Orders, logg))
				r.Delete("/items/{itemID}", pocontrollers.RemoveItem(deps.Orders, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(deps.Products, logg))
			r.Get("/", controllers.ListProducts(deps.Products, logg))
			r.Route("/{productID}", func(r chi.Router) {
				r.Get("/", controllers.GetProduct(deps.Products, logg))
				r.Patch("/", controllers.UpdateProduct(deps.Products, logg))
				r.Delete("/", controllers.DeleteProduct(deps.Products, logg))
				r.Put("/prices", controllers.SetProductPrice(deps.Products, logg))
			})
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Post("/", controllers.CreateSupplier(deps.Suppliers, logg))
			r.Get("/", controllers.ListSuppliers(deps.Suppliers, logg))
			r.Route("/{supplierID}", func(r chi.Router) {
				r.Get("/", controllers.GetSupplier(deps.Suppliers, logg))
				r.Patch("/", controllers.UpdateSupplier(deps.Suppliers, logg))
				r.Delete("/", controllers.DeleteSupplier(deps.Suppliers, logg))
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.ListUsers(deps.Users, logg))
			r.Get("/{userID}", controllers.GetUser(deps.Users, logg))
		})

		r.Route("/distributors", func(r chi.Router) {
			r.Post("/", controllers.CreateDistributor(deps.Distributors, logg))
			r.Get("/", controllers.ListDistributors(deps.Distributors, logg))
			r.Route("/{distributorID}", func(r chi.Router) {
				r.Get("/", controllers.GetDistributor(deps.Distributors, logg))
				r.Patch("/", controllers.UpdateDistributor(deps.Distributors, logg))
				r.Delete("/", controllers.DeleteDistributor(deps.Distributors, logg))
			})
		})
	})

	return r
}

// redisPinger keeps the readiness probe's pinger nil when redis is not
// configured, a typed-nil *Client would otherwise defeat the nil check.
func redisPinger(client *pkgredis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}
