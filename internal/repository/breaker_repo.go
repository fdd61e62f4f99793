package repository

import (
	"context"
	"errors"

	"stockmaster/internal/infra"
	"stockmaster/internal/model"
)

type breakerTablaRepo struct {
	inner TablaRepository
	cb    *infra.CircuitBreaker
}

// NewBreakerTablaRepository fast-fails store calls while cb is open.
// Failures are never retried here.
func NewBreakerTablaRepository(inner TablaRepository, cb *infra.CircuitBreaker) TablaRepository {
	return &breakerTablaRepo{inner: inner, cb: cb}
}

func (r *breakerTablaRepo) ObtenerTabla(ctx context.Context) (*model.Tabla, error) {
	var t *model.Tabla
	err := r.cb.Execute(func() error {
		var err error
		t, err = r.inner.ObtenerTabla(ctx)
		return err
	})
	if errors.Is(err, infra.ErrCircuitOpen) {
		return nil, leerErr(err)
	}
	return t, err
}

func (r *breakerTablaRepo) ReemplazarTabla(ctx context.Context, t *model.Tabla) error {
	err := r.cb.Execute(func() error { return r.inner.ReemplazarTabla(ctx, t) })
	if errors.Is(err, infra.ErrCircuitOpen) {
		return escribirErr(err)
	}
	return err
}

func (r *breakerTablaRepo) Ping(ctx context.Context) error { return r.inner.Ping(ctx) }
