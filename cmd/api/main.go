package main

import (
	"context"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucasferreira/fornada-backend/api/routes"
	"github.com/lucasferreira/fornada-backend/internal/inventory"
	"github.com/lucasferreira/fornada-backend/internal/orders"
	"github.com/lucasferreira/fornada-backend/internal/packaging"
	"github.com/lucasferreira/fornada-backend/internal/production"
	"github.com/lucasferreira/fornada-backend/internal/sales"
	"github.com/lucasferreira/fornada-backend/pkg/config"
	"github.com/lucasferreira/fornada-backend/pkg/db"
	"github.com/lucasferreira/fornada-backend/pkg/db/models"
	"github.com/lucasferreira/fornada-backend/pkg/logger"
	"github.com/lucasferreira/fornada-backend/pkg/metrics"
	"github.com/lucasferreira/fornada-backend/pkg/migrate"
	"github.com/lucasferreira/fornada-backend/pkg/outbox"
	"github.com/lucasferreira/fornada-backend/pkg/redis"
)

// ordersBridge defers binding of the orders service so the approval cascades
// in production, packaging, and sales can be constructed first.
type ordersBridge struct {
	svc orders.Service
}

func (b *ordersBridge) ItemForCascade(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*models.OrderItem, error) {
	return b.svc.ItemForCascade(ctx, tx, itemID)
}

func (b *ordersBridge) OrderForCascade(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*models.Order, error) {
	return b.svc.OrderForCascade(ctx, tx, orderID)
}

func (b *ordersBridge) RecordProducedApproval(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty decimal.Decimal) error {
	return b.svc.RecordProducedApproval(ctx, tx, itemID, qty)
}

func (b *ordersBridge) RecordPackagedApproval(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty decimal.Decimal) error {
	return b.svc.RecordPackagedApproval(ctx, tx, itemID, qty)
}

func (b *ordersBridge) ReconcileItemQty(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, approvedQty decimal.Decimal) (bool, error) {
	return b.svc.ReconcileItemQty(ctx, tx, itemID, approvedQty)
}

func (b *ordersBridge) Release(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, totalCents int) error {
	return b.svc.Release(ctx, tx, orderID, totalCents)
}

func (b *ordersBridge) ClosePackagedUnsold(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	return b.svc.ClosePackagedUnsold(ctx, tx, orderID)
}

func (b *ordersBridge) ConfirmSale(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	return b.svc.ConfirmSale(ctx, tx, orderID)
}

// productionBridge defers binding of the production service, which itself
// needs the packaging service at construction time.
type productionBridge struct {
	svc production.Service
}

func (b *productionBridge) CountOpenByOrderItem(ctx context.Context, tx *gorm.DB, orderItemID uuid.UUID) (int64, error) {
	return b.svc.CountOpenByOrderItem(ctx, tx, orderItemID)
}

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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	workflow := metrics.NewWorkflowMetrics(registry)

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	inventorySvc, err := inventory.NewService(inventory.NewRepository(dbClient.DB()), dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	bridge := &ordersBridge{}
	prodBridge := &productionBridge{}

	salesSvc, err := sales.NewService(sales.NewRepository(dbClient.DB()), dbClient, outboxService, bridge, workflow)
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}

	packagingSvc, err := packaging.NewService(packaging.NewRepository(dbClient.DB()), dbClient, outboxService, bridge, inventorySvc, salesSvc, prodBridge, workflow)
	if err != nil {
		logg.Error(context.Background(), "failed to create packaging service", err)
		os.Exit(1)
	}

	productionSvc, err := production.NewService(production.NewRepository(dbClient.DB()), dbClient, outboxService, packagingSvc, bridge, inventorySvc, workflow)
	if err != nil {
		logg.Error(context.Background(), "failed to create production service", err)
		os.Exit(1)
	}
	prodBridge.svc = productionSvc

	ordersSvc, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, outboxService, inventorySvc, productionSvc, packagingSvc, workflow)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	bridge.svc = ordersSvc

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
			Config:     cfg,
			Logger:     logg,
			DB:         dbClient,
			Redis:      redisClient,
			Registry:   registry,
			Inventory:  inventorySvc,
			Orders:     ordersSvc,
			Production: productionSvc,
			Packaging:  packagingSvc,
			Sales:      salesSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
