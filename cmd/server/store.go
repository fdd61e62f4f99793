package main

import (
	"context"
	"fmt"

	"stockmaster/internal/config"
	"stockmaster/internal/infra"
	"stockmaster/internal/repository"
)

// newStore builds the configured backing store once for the process lifetime.
// The returned func releases its connections.
func newStore(ctx context.Context, cfg *config.Config) (repository.TablaRepository, func(), error) {
	noop := func() {}

	switch cfg.StoreDriver {
	case "sheets":
		if cfg.SheetsSpreadsheetID == "" {
			return nil, noop, fmt.Errorf("SHEETS_SPREADSHEET_ID is required for the sheets driver")
		}
		svc, err := infra.NewSheetsService(ctx, cfg.SheetsCredentialsFile)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewSheetsTablaRepository(svc, cfg.SheetsSpreadsheetID, cfg.SheetsWorksheet), noop, nil

	case "xlsx":
		return repository.NewXLSXTablaRepository(cfg.XLSXPath, cfg.SheetsWorksheet), noop, nil

	case "postgres":
		db, err := infra.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewPostgresTablaRepository(db), closeDB, nil

	case "redis":
		rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewRedisTablaRepository(rdb, cfg.RedisTableKey), func() { _ = rdb.Close() }, nil

	case "memory":
		return repository.NewMemoryTablaRepository(nil), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
