package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dashcase/salesboard-backend/api/routes"
	"github.com/dashcase/salesboard-backend/internal/orders"
	"github.com/dashcase/salesboard-backend/internal/products"
	"github.com/dashcase/salesboard-backend/internal/sales"
	"github.com/dashcase/salesboard-backend/internal/vendors"
	"github.com/dashcase/salesboard-backend/pkg/config"
	"github.com/dashcase/salesboard-backend/pkg/db"
	"github.com/dashcase/salesboard-backend/pkg/logger"
	"github.com/dashcase/salesboard-backend/pkg/metrics"
	"github.com/dashcase/salesboard-backend/pkg/migrate"
	"github.com/dashcase/salesboard-backend/pkg/redis"
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

	loc, err := cfg.Report.Location()
	if err != nil {
		logg.Error(context.Background(), "failed to resolve report timezone", err)
		os.Exit(1)
	}

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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	aggregationMetrics := metrics.NewAggregationMetrics(registry)

	var redisClient *redis.Client
	var redisPinger redis.Pinger
	var salesCache sales.Cache
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		redisPinger = redisClient
		salesCache = redisClient
	} else {
		logg.Info(context.Background(), "redis not configured, monthly sales cache disabled")
	}

	vendorRepo := vendors.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())

	vendorService, err := vendors.NewService(vendorRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create vendor service", err)
		os.Exit(1)
	}
	productService, err := products.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}
	salesService, err := sales.NewService(sales.ServiceOptions{
		Orders:         sales.NewRepository(dbClient.DB()),
		Products:       productRepo,
		Vendors:        vendorRepo,
		Location:       loc,
		Logger:         logg,
		Cache:          salesCache,
		CacheTTL:       cfg.Report.CacheTTL,
		Metrics:        aggregationMetrics,
		ChartMonths:    cfg.Report.ChartMonths,
		ChartMaxMonths: cfg.Report.ChartMaxMonths,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}
	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
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
		"tz":   loc.String(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, loc, dbClient, redisPinger, registry,
			vendorService, productService, salesService, orderService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
