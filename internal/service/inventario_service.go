package service

import (
	"context"
	"errors"

	"stockmaster/internal/dto"
	"stockmaster/internal/metrics"
	"stockmaster/internal/model"
	"stockmaster/internal/repository"

	"github.com/rs/zerolog/log"
)

// InventarioService reads the whole table from the store on every call and,
// for mutating operations, writes the whole table back once.
type InventarioService interface {
	Obtener(ctx context.Context, codigo string) (*dto.ProductoResponse, error)
	Ajustar(ctx context.Context, codigo string, req dto.AjusteStockRequest) (*dto.ProductoResponse, error)
	CargarMasivo(ctx context.Context, items []dto.CargaMasivaItem) (*dto.CargaMasivaResponse, error)
	Exportar(ctx context.Context) (*model.Tabla, []map[string]any, error)
	CodigosProducto(ctx context.Context) ([]string, error)
}

type inventarioService struct {
	repo repository.TablaRepository
}

func NewInventarioService(repo repository.TablaRepository) InventarioService {
	return &inventarioService{repo: repo}
}

func (s *inventarioService) Obtener(ctx context.Context, codigo string) (*dto.ProductoResponse, error) {
	t, err := s.leer(ctx)
	if err != nil {
		return nil, err
	}
	p, err := ObtenerProducto(t, codigo)
	if err != nil {
		return nil, err
	}
	return toResponse(p), nil
}

func (s *inventarioService) Ajustar(ctx context.Context, codigo string, req dto.AjusteStockRequest) (*dto.ProductoResponse, error) {
	t, err := s.leer(ctx)
	if err != nil {
		return nil, err
	}
	p, movs, err := AjustarStock(t, codigo, Accion(req.Accion), ParseCantidad(req.Cantidad))
	if err != nil {
		return nil, err
	}
	if err := s.escribir(ctx, t); err != nil {
		return nil, err
	}

	registrar(movs)
	return toResponse(p), nil
}

func (s *inventarioService) CargarMasivo(ctx context.Context, items []dto.CargaMasivaItem) (*dto.CargaMasivaResponse, error) {
	t, err := s.leer(ctx)
	if err != nil {
		return nil, err
	}
	res := CargaMasiva(t, items)
	if err := s.escribir(ctx, t); err != nil {
		return nil, err
	}

	registrar(res.Movimientos)
	metrics.CargaMasivaItems.WithLabelValues("ok").Add(float64(len(res.Exitosos)))
	metrics.CargaMasivaItems.WithLabelValues("fallido").Add(float64(len(res.Fallidos)))

	msg := "Carga de stock exitosa!"
	if len(res.Fallidos) > 0 {
		msg = "Carga completada con algunas fallas."
	}
	return &dto.CargaMasivaResponse{Message: msg, Successful: res.Exitosos, Failed: res.Fallidos}, nil
}

func (s *inventarioService) Exportar(ctx context.Context) (*model.Tabla, []map[string]any, error) {
	t, err := s.leer(ctx)
	if err != nil {
		return nil, nil, err
	}
	return t, ExportarStock(t), nil
}

func (s *inventarioService) CodigosProducto(ctx context.Context) ([]string, error) {
	t, err := s.leer(ctx)
	if err != nil {
		return nil, err
	}
	return CodigosProducto(t), nil
}

func (s *inventarioService) leer(ctx context.Context) (*model.Tabla, error) {
	t, err := s.repo.ObtenerTabla(ctx)
	observarStore(repository.OpLeer, err)
	return t, err
}

func (s *inventarioService) escribir(ctx context.Context, t *model.Tabla) error {
	err := s.repo.ReemplazarTabla(ctx, t)
	observarStore(repository.OpEscribir, err)
	return err
}

func observarStore(op string, err error) {
	resultado := "ok"
	if err != nil {
		resultado = "error"
		var se *repository.StoreError
		if !errors.As(err, &se) {
			log.Warn().Err(err).Str("op", op).Msg("store returned an untyped error")
		}
	}
	metrics.StoreOperaciones.WithLabelValues(op, resultado).Inc()
}

func registrar(movs []model.MovimientoStock) {
	for _, m := range movs {
		metrics.MovimientosStock.WithLabelValues(m.Tipo).Inc()
		log.Info().
			Str("codigo", m.Codigo).
			Str("tipo", m.Tipo).
			Int("cantidad", m.Cantidad).
			Int("stock_anterior", m.StockAnterior).
			Int("stock_nuevo", m.StockNuevo).
			Msg("stock actualizado")
	}
}
