package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/pixellab01/dashboard/internal/config"
	"github.com/pixellab01/dashboard/internal/ent"

	_ "github.com/go-sql-driver/mysql"
)

// NewClient opens the relational store and runs schema migration. The raw
// *sql.DB is returned alongside the ent client for health checks.
func NewClient(cfg config.DatabaseConfig, logger *slog.Logger) (*ent.Client, *sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=True&loc=Local&charset=utf8mb4",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	drv := entsql.OpenDB(cfg.Driver, db)
	client := ent.NewClient(ent.Driver(drv))

	if err := client.Schema.Create(context.Background()); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Info("database connected",
		"driver", cfg.Driver,
		"host", cfg.Host,
		"database", cfg.Database,
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)

	return client, db, nil
}

// Close closes the database connection
func Close(client *ent.Client, logger *slog.Logger) error {
	if err := client.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
		return err
	}
	logger.Info("database closed")
	return nil
}
