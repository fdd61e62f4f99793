package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx and applies the
// idempotent schema patches for the stock tables.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}
	return db, nil
}

// RunMigrations creates the stock tables when missing. Every statement is safe
// to re-run on an already-patched database.
func RunMigrations(db *gorm.DB) error {
	patches := []string{
		`CREATE TABLE IF NOT EXISTS productos (
		    id          BIGSERIAL PRIMARY KEY,
		    posicion    INT     NOT NULL,
		    codigo      TEXT    NOT NULL DEFAULT '',
		    nombre      TEXT    NOT NULL DEFAULT '',
		    tipo        TEXT    NOT NULL DEFAULT '',
		    stock       INT     NOT NULL DEFAULT 0 CHECK (stock >= 0),
		    componentes TEXT    NOT NULL DEFAULT '',
		    extra       TEXT,
		    vacia       BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_productos_posicion ON productos (posicion)`,
		`CREATE INDEX IF NOT EXISTS idx_productos_codigo ON productos (codigo)`,
		`CREATE TABLE IF NOT EXISTS stock_columnas (
		    posicion INT  PRIMARY KEY,
		    nombre   TEXT NOT NULL
		)`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
