package main

import (
	"context"
	"log"
	"os"

	"backoffice/internal/config"
	"backoffice/internal/db"
	"backoffice/internal/logging"
	"backoffice/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := logging.Init("backoffice-migrate", cfg.LogLevel, cfg.AppEnv)
	if !cfg.AuditEnabled() {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	applied, err := db.Migrate(ctx, database, migrations.Files)
	for _, name := range applied {
		logger.Info("applied migration", "file", name)
	}
	if err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if len(applied) == 0 {
		logger.Info("schema up to date")
	}
}
