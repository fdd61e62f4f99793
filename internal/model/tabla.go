package model

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Column headers of the stock worksheet.
const (
	ColCodigo      = "Codigo"
	ColNombre      = "Nombre"
	ColTipo        = "Tipo"
	ColStock       = "Stock"
	ColComponentes = "Componentes"
)

// DefaultColumnas is the header row written when a store starts out empty.
var DefaultColumnas = []string{ColCodigo, ColNombre, ColTipo, ColStock, ColComponentes}

// StockMaximo is the largest stock a row can hold. It matches the INT column
// of the SQL store; larger values saturate.
const StockMaximo = math.MaxInt32

// ErrColumnaFaltante is returned when the header row lacks Codigo or Stock.
var ErrColumnaFaltante = errors.New("columna requerida ausente")

// Tabla is the whole product table as read from the backing store.
// Columnas keeps the original header order so a full rewrite preserves the layout.
type Tabla struct {
	Columnas  []string
	Productos []Producto
}

// Buscar returns the first row whose Codigo matches, or nil.
// Rows without a code are never matched.
func (t *Tabla) Buscar(codigo string) *Producto {
	if codigo == "" {
		return nil
	}
	for i := range t.Productos {
		if t.Productos[i].Codigo == codigo {
			return &t.Productos[i]
		}
	}
	return nil
}

// Indice maps every code to its first row. Later duplicates are ignored.
func (t *Tabla) Indice() map[string]*Producto {
	idx := make(map[string]*Producto, len(t.Productos))
	for i := range t.Productos {
		p := &t.Productos[i]
		if p.Codigo == "" {
			continue
		}
		if _, ok := idx[p.Codigo]; !ok {
			idx[p.Codigo] = p
		}
	}
	return idx
}

// FromRows parses a header row plus data rows (as returned by a spreadsheet)
// into a Tabla. Rows may be ragged; missing cells read as blank.
func FromRows(rows [][]string) (*Tabla, error) {
	if len(rows) == 0 {
		return &Tabla{Columnas: append([]string(nil), DefaultColumnas...)}, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	for _, req := range []string{ColCodigo, ColStock} {
		if indexOf(header, req) < 0 {
			return nil, fmt.Errorf("%w: %s", ErrColumnaFaltante, req)
		}
	}

	t := &Tabla{Columnas: header, Productos: make([]Producto, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		t.Productos = append(t.Productos, productoFromRow(header, row))
	}
	return t, nil
}

// ToRows renders the table back to header + data rows in column order.
// Rows that were entirely blank on read are written back blank.
func (t *Tabla) ToRows() [][]string {
	out := make([][]string, 0, len(t.Productos)+1)
	out = append(out, append([]string(nil), t.Columnas...))
	for _, p := range t.Productos {
		row := make([]string, len(t.Columnas))
		if !p.Vacia {
			for i, col := range t.Columnas {
				row[i] = p.Celda(col)
			}
		}
		out = append(out, row)
	}
	return out
}

func productoFromRow(header, row []string) Producto {
	p := Producto{Vacia: true}
	for i, col := range header {
		var v string
		if i < len(row) {
			v = row[i]
		}
		if strings.TrimSpace(v) != "" {
			p.Vacia = false
		}
		switch col {
		case ColCodigo:
			p.Codigo = strings.TrimSpace(v)
		case ColNombre:
			p.Nombre = v
		case ColTipo:
			p.Tipo = v
		case ColStock:
			p.Stock = ParseStock(v)
		case ColComponentes:
			p.Componentes = v
		default:
			if col == "" {
				continue
			}
			if p.Extra == nil {
				p.Extra = make(map[string]string)
			}
			p.Extra[col] = v
		}
	}
	return p
}

// ParseStock coerces a raw cell into an integer in [0, StockMaximo].
// Blank, malformed and negative values become 0; fractions truncate.
func ParseStock(raw string) int {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		return 0
	}
	if d.GreaterThan(decimal.NewFromInt(StockMaximo)) {
		return StockMaximo
	}
	return int(d.IntPart())
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}
