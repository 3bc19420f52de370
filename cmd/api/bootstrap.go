package main

import (
	"fmt"
	"log/slog"
	"os"

	"realestate-backend/internal/config"
	"realestate-backend/internal/infrastructure/db"
	"realestate-backend/internal/infrastructure/logger"

	"gorm.io/gorm"
)

// loadConfig reads the environment and installs the process logger.
func loadConfig() (*config.Config, *slog.Logger) {
	cfg := config.Load()
	log := logger.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(log)
	return cfg, log
}

func openDB(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), db.WithLogger(log, db.ParseLogLevel(cfg.DBLogLevel)))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	return gdb, nil
}

func closeDB(gdb *gorm.DB, log *slog.Logger) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("close database", "error", err)
	}
}
