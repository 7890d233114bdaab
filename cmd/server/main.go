package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backoffice/internal/backoffice"
	"backoffice/internal/config"
	"backoffice/internal/db"
	"backoffice/internal/gateway"
	"backoffice/internal/handlers"
	"backoffice/internal/logging"
	"backoffice/internal/services"
	"backoffice/internal/store"
	"backoffice/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := logging.Init("backoffice", cfg.LogLevel, cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The audit trail is optional. Both interfaces stay nil without a
	// database so the handlers and services can tell it is disabled.
	var (
		auditLog    services.AuditLog
		auditReader handlers.AuditReader
	)
	if cfg.AuditEnabled() {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer database.Close()
		audits := store.NewAuditStore(database)
		auditLog, auditReader = audits, audits
	} else {
		logger.Warn("DATABASE_URL not set, audit trail disabled")
	}

	client := gateway.NewClient(cfg.BackendURL, cfg.BackendToken, cfg.BackendTimeout)
	workspace := backoffice.New(backoffice.Gateways{
		Customers: gateway.NewCustomerGateway(client),
		Accounts:  gateway.NewAccountGateway(client),
		Movements: gateway.NewMovementGateway(client),
		Reports:   gateway.NewReportGateway(client),
	}, auditLog)

	if err := workspace.LoadAll(ctx); err != nil {
		logger.Warn("initial load failed, caches start empty", "error", err)
	}

	hub := websocket.NewHub()
	streaming := workspace.Stream(ctx, hub)

	handler := handlers.New(cfg, workspace, auditReader, hub, logger)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.BackendTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("backoffice API listening", "addr", server.Addr, "backend", cfg.BackendURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	streaming.Wait()
	logger.Info("backoffice API stopped")
}
