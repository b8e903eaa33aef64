package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dashcase/salesboard-backend/api/controllers"
	"github.com/dashcase/salesboard-backend/api/middleware"
	"github.com/dashcase/salesboard-backend/internal/orders"
	"github.com/dashcase/salesboard-backend/internal/products"
	"github.com/dashcase/salesboard-backend/internal/sales"
	"github.com/dashcase/salesboard-backend/internal/vendors"
	"github.com/dashcase/salesboard-backend/pkg/config"
	"github.com/dashcase/salesboard-backend/pkg/db"
	"github.com/dashcase/salesboard-backend/pkg/logger"
	"github.com/dashcase/salesboard-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	loc *time.Location,
	dbP db.Pinger,
	redisP redis.Pinger,
	gatherer prometheus.Gatherer,
	vendorService vendors.Service,
	productService products.Service,
	salesService sales.Service,
	orderService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/vendors", controllers.ListVendors(vendorService, logg))
		r.Get("/vendors/{vendorId}/products", controllers.VendorProducts(productService, logg))

		r.Route("/sales", func(r chi.Router) {
			r.Get("/monthly", controllers.MonthlySales(salesService, loc, logg))
			r.Get("/dashboard", controllers.SalesDashboard(salesService, loc, logg))
			r.Get("/chart", controllers.SalesChart(salesService, loc, logg))
		})

		r.Get("/orders", controllers.ListOrders(orderService, loc, logg))
	})

	return r
}
