package repository

import (
	"context"
	"fmt"

	"stockmaster/internal/model"
)

// TablaRepository is the full-table contract of the backing store.
// There is no row-level API: callers read everything, mutate in memory and
// replace everything. Concurrent writers race and the last one wins.
type TablaRepository interface {
	ObtenerTabla(ctx context.Context) (*model.Tabla, error)
	ReemplazarTabla(ctx context.Context, t *model.Tabla) error
	// Ping checks connectivity for the health endpoint.
	Ping(ctx context.Context) error
}

const (
	OpLeer     = "leer"
	OpEscribir = "escribir"
)

// StoreError wraps any read or write failure against the backing store.
type StoreError struct {
	Op  string // OpLeer | OpEscribir
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message(), e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Message is the client-safe description, without the underlying cause.
func (e *StoreError) Message() string {
	if e.Op == OpEscribir {
		return "Error al escribir en la hoja de stock"
	}
	return "Error al leer la hoja de stock"
}

func leerErr(err error) error     { return &StoreError{Op: OpLeer, Err: err} }
func escribirErr(err error) error { return &StoreError{Op: OpEscribir, Err: err} }
