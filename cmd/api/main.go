package main

import (
	"context"
	"log"
	"time"

	"orders-dashboard/internal/core/cache"
	"orders-dashboard/internal/core/config"
	"orders-dashboard/internal/core/logger"
	"orders-dashboard/internal/core/server"
	orderadapter "orders-dashboard/internal/features/orders/adapters"
	orderhandler "orders-dashboard/internal/features/orders/handler"
	"orders-dashboard/internal/features/orders/ports"
	orderservice "orders-dashboard/internal/features/orders/service"
	"orders-dashboard/internal/features/orders/store"
	searchhandler "orders-dashboard/internal/features/search/handler"
	searchservice "orders-dashboard/internal/features/search/service"

	"go.uber.org/zap"
)

// @title Orders Dashboard API
// @version 1.0
// @description Order search, filtering and collection management for the merchant fulfillment dashboard.
// @contact.name API Support
// @contact.email support@ordersdashboard.dev
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Initialize Platform Adapter and run Health Check
	platform := orderadapter.NewPlatformAdapter(cfg.Platform)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := platform.HealthCheck(ctx); err != nil {
		cancel()
		l.Fatal("Platform Health Check Failed", zap.Error(err))
	}
	cancel()
	l.Info("Platform connection verified")

	// Initialize optional snapshot store
	var snapshots ports.SnapshotRepository
	if cfg.Redis.URL != "" {
		redisAdapter, err := cache.NewRedisAdapter(cfg.Redis.URL)
		if err != nil {
			l.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisAdapter.Close()
		snapshots = orderadapter.NewRedisSnapshotRepository(redisAdapter)
		l.Info("Snapshot store enabled")
	} else {
		l.Info("Snapshot store disabled, collection is memory-only")
	}

	// Initialize Order Store, Service & Handler
	orderStore := store.New()
	orderService := orderservice.NewOrderService(platform, snapshots, orderStore, cfg.Search.RefreshLimit)
	orderHandler := orderhandler.NewOrderHandler(orderService, orderStore)

	warmCtx, warmCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := orderService.Warm(warmCtx); err != nil {
		l.Warn("Failed to warm order collection from snapshot", zap.Error(err))
	}
	if orderStore.Len() == 0 {
		if _, err := orderService.Refresh(warmCtx); err != nil {
			l.Warn("Initial order load failed, starting with an empty collection", zap.Error(err))
		}
	}
	warmCancel()

	// Initialize Search Engine & Handler
	contacts := orderadapter.NewContactsAdapter(cfg.Contacts, cfg.Platform.APIKey)
	queryBuilder := searchservice.NewQueryBuilder(contacts)
	searchCache := searchservice.NewCache(
		time.Duration(cfg.Search.CacheTTLMS)*time.Millisecond,
		cfg.Search.CacheMaxEntries,
	)
	orchestrator := searchservice.NewOrchestrator(platform, queryBuilder, searchCache, cfg.Search.RemoteLimit)
	searchHandler := searchhandler.NewSearchHandler(orchestrator, orderStore)

	srv := server.New(cfg)

	// Register Routes
	srv.App.Get("/orders", orderHandler.ListOrders)
	srv.App.Get("/orders/search", searchHandler.Search)
	srv.App.Delete("/orders/search", searchHandler.ClearSearch)
	srv.App.Get("/orders/:id", orderHandler.GetOrder)
	srv.App.Patch("/orders/:id/status", orderHandler.UpdateStatus)
	srv.App.Post("/orders/refresh", orderHandler.Refresh)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
