package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"apex-tracker/internal/core/config"
	"apex-tracker/internal/core/kv"
	"apex-tracker/internal/core/logger"
	"apex-tracker/internal/core/server"
	accountadapter "apex-tracker/internal/features/accounts/adapters"
	accounthandler "apex-tracker/internal/features/accounts/handler"
	accountservice "apex-tracker/internal/features/accounts/service"
	orderadapter "apex-tracker/internal/features/orders/adapters"
	orderhandler "apex-tracker/internal/features/orders/handler"
	orderservice "apex-tracker/internal/features/orders/service"
	trackinghandler "apex-tracker/internal/features/tracking/handler"
	trackingservice "apex-tracker/internal/features/tracking/service"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// @title APEX Tracker API
// @version 1.0
// @description Package tracking and order administration for APEX International Logistics.
// @contact.name API Support
// @contact.email support@apexshipping.com
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
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
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize the key-value store and run Health Check
	store, err := kv.Open(cfg.Storage)
	if err != nil {
		l.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = store.Ping(pingCtx)
	cancel()
	if err != nil {
		l.Fatal("Storage Health Check Failed", zap.Error(err))
	}
	l.Info("Storage connection verified")

	// Initialize Order Store & Handler
	orderSvc := orderservice.NewOrderService(
		orderadapter.NewKVOrderRepository(store),
		orderservice.WithSeedCount(cfg.Tracking.SeedOrderCount),
	)
	orderHdl := orderhandler.NewOrderHandler(orderSvc)

	// Initialize Accounts and seed defaults
	accountSvc := accountservice.NewAccountService(
		accountadapter.NewKVAccountRepository(store),
		cfg.Admin,
		cfg.Auth,
	)
	if err := accountSvc.SeedIfEmpty(ctx); err != nil {
		l.Fatal("Failed to seed accounts", zap.Error(err))
	}
	accountHdl := accounthandler.NewAccountHandler(accountSvc)
	requireAdmin := accounthandler.RequireAdmin(accountSvc)

	srv := server.New(cfg, store)

	// Initialize Tracking Service & Handler; streams end with the server
	trackingSvc := trackingservice.NewTrackingService(orderSvc)
	watcher := trackingservice.NewWatcher(trackingSvc, cfg.Tracking.PollInterval)
	trackingHdl := trackinghandler.NewTrackingHandler(trackingSvc, watcher,
		trackinghandler.WithContext(srv.Context()),
		trackinghandler.WithHeartbeat(cfg.Tracking.HeartbeatInterval),
	)

	// Register Routes
	srv.App.Get("/tracking/:id", trackingHdl.GetTracking)
	srv.App.Get("/tracking/:id/stream", trackingHdl.StreamTracking)

	srv.App.Post("/auth/login", accountHdl.Login)
	srv.App.Get("/auth/me", requireAdmin, accountHdl.Me)

	admin := srv.App.Group("/admin", requireAdmin)
	orderHdl.Register(admin)
	admin.Get("/users", accountHdl.ListUsers)
	admin.Post("/users", accountHdl.CreateUser)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
