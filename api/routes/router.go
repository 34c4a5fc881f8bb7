package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lucasferreira/fornada-backend/api/controllers"
	"github.com/lucasferreira/fornada-backend/api/middleware"
	"github.com/lucasferreira/fornada-backend/internal/inventory"
	"github.com/lucasferreira/fornada-backend/internal/orders"
	"github.com/lucasferreira/fornada-backend/internal/packaging"
	"github.com/lucasferreira/fornada-backend/internal/production"
	"github.com/lucasferreira/fornada-backend/internal/sales"
	"github.com/lucasferreira/fornada-backend/pkg/config"
	"github.com/lucasferreira/fornada-backend/pkg/db"
	"github.com/lucasferreira/fornada-backend/pkg/enums"
	"github.com/lucasferreira/fornada-backend/pkg/logger"
	pkgredis "github.com/lucasferreira/fornada-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         db.Pinger
	Redis      *pkgredis.Client
	Registry   *prometheus.Registry
	Inventory  inventory.Service
	Orders     orders.Service
	Production production.Service
	Packaging  packaging.Service
	Sales      sales.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	var cache pkgredis.Pinger
	if deps.Redis != nil {
		cache = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, cache, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	approverRoles := []string{string(enums.MemberRoleAdmin), string(enums.MemberRoleManager)}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		var idemStore pkgredis.IdempotencyStore
		if deps.Redis != nil {
			idemStore = deps.Redis
		}
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Inventory, logg))
			r.Post("/", controllers.CreateProduct(deps.Inventory, logg))
			r.Get("/{productID}", controllers.GetProduct(deps.Inventory, logg))
			r.Get("/{productID}/movements", controllers.ListStockMovements(deps.Inventory, logg))
			r.With(middleware.RequireAnyRole(logg, approverRoles...)).
				Post("/{productID}/stock", controllers.AdjustStock(deps.Inventory, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Post("/", controllers.CreateOrder(deps.Orders, logg))
			r.Get("/{orderID}", controllers.GetOrder(deps.Orders, logg))
			r.Post("/{orderID}/route", controllers.RouteOrder(deps.Orders, logg))
			r.Post("/{orderID}/cancel", controllers.CancelOrder(deps.Orders, logg))
			r.Post("/{orderID}/deliver", controllers.StartOrderDelivery(deps.Orders, logg))
			r.Post("/{orderID}/delivered", controllers.MarkOrderDelivered(deps.Orders, logg))
			r.Get("/{orderID}/sale", controllers.GetSaleByOrder(deps.Sales, logg))
		})

		r.Route("/production", func(r chi.Router) {
			r.Get("/", controllers.ListProductionEntries(deps.Production, logg))
			r.Post("/", controllers.CreateProductionEntry(deps.Production, logg))
			r.Get("/{entryID}", controllers.GetProductionEntry(deps.Production, logg))
			r.Post("/{entryID}/start", controllers.StartProductionEntry(deps.Production, logg))
			r.Post("/{entryID}/complete", controllers.CompleteProductionEntry(deps.Production, logg))
			r.With(middleware.RequireAnyRole(logg, approverRoles...)).
				Post("/{entryID}/approve", controllers.ApproveProductionEntry(deps.Production, logg))
		})

		r.Route("/packaging", func(r chi.Router) {
			r.Get("/", controllers.ListPackagingEntries(deps.Packaging, logg))
			r.Get("/{entryID}", controllers.GetPackagingEntry(deps.Packaging, logg))
			r.Post("/{entryID}/start", controllers.StartPackagingEntry(deps.Packaging, logg))
			r.Post("/{entryID}/complete", controllers.CompletePackagingEntry(deps.Packaging, logg))
			r.With(middleware.RequireAnyRole(logg, approverRoles...)).
				Post("/{entryID}/approve", controllers.ApprovePackagingEntry(deps.Packaging, logg))
			r.With(middleware.RequireAnyRole(logg, approverRoles...)).
				Post("/{entryID}/reject", controllers.RejectPackagingEntry(deps.Packaging, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.ListSales(deps.Sales, logg))
			r.Get("/{saleID}", controllers.GetSale(deps.Sales, logg))
			r.With(middleware.RequireAnyRole(logg, approverRoles...)).
				Post("/{saleID}/invoice", controllers.InvoiceSale(deps.Sales, logg))
		})
	})

	return r
}
