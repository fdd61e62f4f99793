package model

import (
	"strconv"
	"strings"
)

const (
	TipoProducto = "Producto"
	TipoCombo    = "Combo"
)

// Producto is one row of the stock worksheet.
// A combo lists its component codes in Componentes, comma separated.
type Producto struct {
	Codigo      string
	Nombre      string
	Tipo        string
	Stock       int
	Componentes string
	// Extra holds any additional worksheet columns, keyed by header.
	Extra map[string]string
	// Vacia marks a row whose cells were all blank when read.
	Vacia bool
	// Tipados keeps non-text cell values (numbers, booleans) for stores that
	// return typed cells, keyed by header. A value is only reused on write
	// while the textual cell still matches it.
	Tipados map[string]any
}

// EsCombo reports whether stock changes cascade to the components.
func (p *Producto) EsCombo() bool {
	return strings.EqualFold(strings.TrimSpace(p.Tipo), TipoCombo)
}

// EsProducto reports whether the row is a plain product.
func (p *Producto) EsProducto() bool {
	return strings.EqualFold(strings.TrimSpace(p.Tipo), TipoProducto)
}

// CodigosComponentes splits Componentes into trimmed codes, skipping blanks.
// Duplicates are kept: a component listed twice receives the delta twice.
func (p *Producto) CodigosComponentes() []string {
	if strings.TrimSpace(p.Componentes) == "" {
		return nil
	}
	parts := strings.Split(p.Componentes, ",")
	codigos := make([]string, 0, len(parts))
	for _, c := range parts {
		if c = strings.TrimSpace(c); c != "" {
			codigos = append(codigos, c)
		}
	}
	return codigos
}

// Celda returns the textual value of a column for this row.
func (p *Producto) Celda(col string) string {
	switch col {
	case ColCodigo:
		return p.Codigo
	case ColNombre:
		return p.Nombre
	case ColTipo:
		return p.Tipo
	case ColStock:
		return strconv.Itoa(p.Stock)
	case ColComponentes:
		return p.Componentes
	default:
		return p.Extra[col]
	}
}
