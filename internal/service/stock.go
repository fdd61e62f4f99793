package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"stockmaster/internal/dto"
	"stockmaster/internal/model"

	"github.com/shopspring/decimal"
)

var (
	ErrProductoNoEncontrado = errors.New("producto no encontrado")
	ErrAccionInvalida       = errors.New("accion invalida")
)

// Accion is the direction of a single-product adjustment.
type Accion string

const (
	AccionSumar  Accion = "sumar"
	AccionRestar Accion = "restar"
)

// ParseCantidad reads the quantity form field. Missing, non-numeric and
// negative values all become 1. Quantities above model.StockMaximo are capped.
func ParseCantidad(raw string) int {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(strings.TrimSpace(raw), "-") {
		return model.StockMaximo
	}
	if err != nil || n < 0 {
		return 1
	}
	return int(min(n, model.StockMaximo))
}

// AjustarStock applies cantidad to the product and, for a combo, the same delta
// to every component that exists in the table. An unknown code is reported
// before an unknown accion. Decrements floor at zero;
// unresolved component codes are skipped.
func AjustarStock(t *model.Tabla, codigo string, accion Accion, cantidad int) (*model.Producto, []model.MovimientoStock, error) {
	idx := t.Indice()
	p, ok := idx[codigo]
	if !ok {
		return nil, nil, ErrProductoNoEncontrado
	}
	if accion != AccionSumar && accion != AccionRestar {
		return nil, nil, fmt.Errorf("%w: %q", ErrAccionInvalida, accion)
	}

	delta := cantidad
	if accion == AccionRestar {
		delta = -cantidad
	}

	movs := []model.MovimientoStock{aplicar(p, delta, model.MovimientoAjuste)}
	if p.EsCombo() {
		for _, c := range p.CodigosComponentes() {
			comp, ok := idx[c]
			if !ok {
				continue
			}
			movs = append(movs, aplicar(comp, delta, model.MovimientoComponente))
		}
	}
	return p, movs, nil
}

func aplicar(p *model.Producto, delta int, tipo string) model.MovimientoStock {
	m := model.MovimientoStock{Codigo: p.Codigo, Tipo: tipo, Cantidad: delta, StockAnterior: p.Stock}
	nuevo := int64(p.Stock) + int64(delta)
	p.Stock = int(min(max(0, nuevo), model.StockMaximo))
	m.StockNuevo = p.Stock
	return m
}

// ResultadoCarga is the per-item outcome of a bulk load.
type ResultadoCarga struct {
	Exitosos    []string
	Fallidos    []string
	Movimientos []model.MovimientoStock
}

// CargaMasiva adds each received quantity to its product. Items are independent:
// an invalid or unknown item is reported and the batch continues. Combos are
// not expanded here, only the listed row changes.
func CargaMasiva(t *model.Tabla, items []dto.CargaMasivaItem) ResultadoCarga {
	res := ResultadoCarga{Exitosos: []string{}, Fallidos: []string{}}
	idx := t.Indice()

	for _, item := range items {
		codigo, cantidad, ok := validarItem(item)
		if !ok {
			res.Fallidos = append(res.Fallidos, fmt.Sprintf(
				"Datos inválidos para un producto (Codigo: %s, Cantidad: %s).",
				mostrar(item.ProductoID), mostrar(item.CantidadRecibida)))
			continue
		}

		p, found := idx[codigo]
		if !found {
			res.Fallidos = append(res.Fallidos, fmt.Sprintf("Producto con Codigo '%s' no encontrado.", codigo))
			continue
		}
		m := aplicar(p, cantidadEntera(cantidad), model.MovimientoCargaMasiva)
		res.Movimientos = append(res.Movimientos, m)
		res.Exitosos = append(res.Exitosos, fmt.Sprintf("Stock de %s actualizado a %d", codigo, p.Stock))
	}
	return res
}

// validarItem requires a non-null producto_id (string or number) and a JSON
// number >= 0 as cantidad_recibida.
func validarItem(item dto.CargaMasivaItem) (string, decimal.Decimal, bool) {
	id := bytes.TrimSpace(item.ProductoID)
	if len(id) == 0 || bytes.Equal(id, []byte("null")) {
		return "", decimal.Zero, false
	}
	var codigo string
	switch {
	case id[0] == '"':
		if err := json.Unmarshal(id, &codigo); err != nil {
			return "", decimal.Zero, false
		}
	case esNumeroJSON(id):
		codigo = string(id)
	default:
		return "", decimal.Zero, false
	}

	q := bytes.TrimSpace(item.CantidadRecibida)
	if !esNumeroJSON(q) {
		return "", decimal.Zero, false
	}
	cantidad, err := decimal.NewFromString(string(q))
	if err != nil || cantidad.IsNegative() {
		return "", decimal.Zero, false
	}
	return codigo, cantidad, true
}

// cantidadEntera truncates a non-negative bulk quantity and caps it at
// model.StockMaximo so the addition can never wrap.
func cantidadEntera(d decimal.Decimal) int {
	if d.GreaterThan(decimal.NewFromInt(model.StockMaximo)) {
		return model.StockMaximo
	}
	return int(d.IntPart())
}

func esNumeroJSON(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	if b[0] != '-' && (b[0] < '0' || b[0] > '9') {
		return false
	}
	var n json.Number
	return json.Unmarshal(b, &n) == nil
}

func mostrar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "null"
	}
	var s string
	if raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

// ObtenerProducto looks a product up by code without mutating the table.
func ObtenerProducto(t *model.Tabla, codigo string) (*model.Producto, error) {
	p := t.Buscar(codigo)
	if p == nil {
		return nil, ErrProductoNoEncontrado
	}
	return p, nil
}

// ExportarStock returns every non-empty row as column → value. Blank cells are
// "" and Stock is an integer. Columns with a blank header are left out.
func ExportarStock(t *model.Tabla) []map[string]any {
	out := make([]map[string]any, 0, len(t.Productos))
	for i := range t.Productos {
		p := &t.Productos[i]
		if p.Vacia {
			continue
		}
		rec := make(map[string]any, len(t.Columnas))
		for _, col := range t.Columnas {
			if col == "" {
				continue
			}
			if col == model.ColStock {
				rec[col] = p.Stock
				continue
			}
			rec[col] = p.Celda(col)
		}
		out = append(out, rec)
	}
	return out
}

// CodigosProducto lists the codes of plain products, in table order.
func CodigosProducto(t *model.Tabla) []string {
	codigos := []string{}
	for i := range t.Productos {
		p := &t.Productos[i]
		if !p.Vacia && p.EsProducto() {
			codigos = append(codigos, p.Codigo)
		}
	}
	return codigos
}

func toResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Tipo:        p.Tipo,
		Stock:       p.Stock,
		Componentes: p.Componentes,
	}
}
