package repository

import (
	"context"
	"sync"

	"stockmaster/internal/model"
)

// MemoryTablaRepository keeps the table in process memory.
// Used for local development and as the stub in service/handler tests.
type MemoryTablaRepository struct {
	mu   sync.Mutex
	rows [][]string

	// Optional failure injection for tests.
	ErrLeer     error
	ErrEscribir error
	Escrituras  int
}

func NewMemoryTablaRepository(t *model.Tabla) *MemoryTablaRepository {
	r := &MemoryTablaRepository{}
	if t != nil {
		r.rows = t.ToRows()
	}
	return r
}

func (r *MemoryTablaRepository) ObtenerTabla(_ context.Context) (*model.Tabla, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ErrLeer != nil {
		return nil, leerErr(r.ErrLeer)
	}
	t, err := model.FromRows(copyRows(r.rows))
	if err != nil {
		return nil, leerErr(err)
	}
	return t, nil
}

func (r *MemoryTablaRepository) ReemplazarTabla(_ context.Context, t *model.Tabla) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ErrEscribir != nil {
		return escribirErr(r.ErrEscribir)
	}
	r.rows = t.ToRows()
	r.Escrituras++
	return nil
}

func (r *MemoryTablaRepository) Ping(_ context.Context) error { return nil }

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

var _ TablaRepository = (*MemoryTablaRepository)(nil)
