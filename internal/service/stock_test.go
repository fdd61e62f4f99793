package service

import (
	"encoding/json"
	"fmt"
	"testing"

	"stockmaster/internal/dto"
	"stockmaster/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

func nuevaTabla(productos ...model.Producto) *model.Tabla {
	return &model.Tabla{
		Columnas:  append([]string(nil), model.DefaultColumnas...),
		Productos: productos,
	}
}

func stockDe(t *testing.T, tabla *model.Tabla, codigo string) int {
	t.Helper()
	p := tabla.Buscar(codigo)
	require.NotNil(t, p, "producto %s", codigo)
	return p.Stock
}

func item(id, cantidad string) dto.CargaMasivaItem {
	var it dto.CargaMasivaItem
	if id != "" {
		it.ProductoID = json.RawMessage(id)
	}
	if cantidad != "" {
		it.CantidadRecibida = json.RawMessage(cantidad)
	}
	return it
}

func tablaCombo() *model.Tabla {
	return nuevaTabla(
		model.Producto{Codigo: "A", Tipo: "Combo", Stock: 5, Componentes: "B,C"},
		model.Producto{Codigo: "B", Tipo: "Producto", Stock: 10},
		model.Producto{Codigo: "C", Tipo: "Producto", Stock: 0},
		model.Producto{Codigo: "D", Tipo: "Producto", Stock: 4},
	)
}

// ── AjustarStock ─────────────────────────────────────────────────────────────

func TestAjustarStockComboDecrementClampsComponents(t *testing.T) {
	tabla := tablaCombo()

	p, movs, err := AjustarStock(tabla, "A", AccionRestar, 3)
	require.NoError(t, err)

	assert.Equal(t, 2, p.Stock)
	assert.Equal(t, 2, stockDe(t, tabla, "A"))
	assert.Equal(t, 7, stockDe(t, tabla, "B"))
	assert.Equal(t, 0, stockDe(t, tabla, "C"))
	assert.Equal(t, 4, stockDe(t, tabla, "D"))

	require.Len(t, movs, 3)
	assert.Equal(t, model.MovimientoAjuste, movs[0].Tipo)
	assert.Equal(t, model.MovimientoStock{
		Codigo: "C", Tipo: model.MovimientoComponente, Cantidad: -3, StockAnterior: 0, StockNuevo: 0,
	}, movs[2])
}

func TestAjustarStockComboIncrementAddsToEveryComponent(t *testing.T) {
	tabla := tablaCombo()

	_, _, err := AjustarStock(tabla, "A", AccionSumar, 4)
	require.NoError(t, err)

	assert.Equal(t, 9, stockDe(t, tabla, "A"))
	assert.Equal(t, 14, stockDe(t, tabla, "B"))
	assert.Equal(t, 4, stockDe(t, tabla, "C"))
	assert.Equal(t, 4, stockDe(t, tabla, "D"))
}

func TestAjustarStockPlainProductTouchesOnlyItsRow(t *testing.T) {
	tabla := nuevaTabla(
		model.Producto{Codigo: "P", Tipo: "Producto", Stock: 3, Componentes: "Q"},
		model.Producto{Codigo: "Q", Tipo: "Producto", Stock: 8},
	)

	_, movs, err := AjustarStock(tabla, "P", AccionSumar, 2)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
	assert.Equal(t, 5, stockDe(t, tabla, "P"))
	assert.Equal(t, 8, stockDe(t, tabla, "Q"), "components only apply to combos")

	_, _, err = AjustarStock(tabla, "P", AccionRestar, 50)
	require.NoError(t, err)
	assert.Equal(t, 0, stockDe(t, tabla, "P"))
}

func TestAjustarStockComboTypeIsTrimmedAndCaseInsensitive(t *testing.T) {
	tabla := nuevaTabla(
		model.Producto{Codigo: "K", Tipo: "  cOMbo ", Stock: 1, Componentes: " X , missing,,"},
		model.Producto{Codigo: "X", Tipo: "Producto", Stock: 1},
	)

	_, movs, err := AjustarStock(tabla, "K", AccionSumar, 1)
	require.NoError(t, err)
	assert.Len(t, movs, 2, "unknown component codes are skipped")
	assert.Equal(t, 2, stockDe(t, tabla, "X"))
}

func TestAjustarStockNotFound(t *testing.T) {
	tabla := tablaCombo()
	_, _, err := AjustarStock(tabla, "ZZZ", AccionSumar, 1)
	assert.ErrorIs(t, err, ErrProductoNoEncontrado)
}

func TestAjustarStockRejectsUnknownAction(t *testing.T) {
	tabla := tablaCombo()
	_, _, err := AjustarStock(tabla, "A", Accion("multiplicar"), 1)
	assert.ErrorIs(t, err, ErrAccionInvalida)
	assert.Equal(t, 5, stockDe(t, tabla, "A"))
}

func TestAjustarStockUnknownCodeWinsOverUnknownAction(t *testing.T) {
	tabla := tablaCombo()
	_, _, err := AjustarStock(tabla, "ZZZ", Accion("multiplicar"), 1)
	assert.ErrorIs(t, err, ErrProductoNoEncontrado)
}

func TestParseCantidadDefaultsToOne(t *testing.T) {
	assert.Equal(t, 4, ParseCantidad("4"))
	assert.Equal(t, 0, ParseCantidad("0"))
	assert.Equal(t, 12, ParseCantidad(" 12 "))
	for _, raw := range []string{"", "abc", "-3", "2.5", "-99999999999999999999"} {
		assert.Equal(t, 1, ParseCantidad(raw), "raw=%q", raw)
	}
}

func TestParseCantidadCapsHugeValues(t *testing.T) {
	assert.Equal(t, model.StockMaximo, ParseCantidad("9223372036854775807"))
	assert.Equal(t, model.StockMaximo, ParseCantidad("99999999999999999999"))
	assert.Equal(t, model.StockMaximo, ParseCantidad("2147483648"))
}

func TestAjustarStockHugeIncrementSaturates(t *testing.T) {
	tabla := tablaCombo()

	_, movs, err := AjustarStock(tabla, "A", AccionSumar, ParseCantidad("9223372036854775807"))
	require.NoError(t, err)

	assert.Equal(t, model.StockMaximo, stockDe(t, tabla, "A"))
	assert.Equal(t, model.StockMaximo, stockDe(t, tabla, "B"))
	assert.Equal(t, model.StockMaximo, stockDe(t, tabla, "C"))
	for _, m := range movs {
		assert.GreaterOrEqual(t, m.StockNuevo, m.StockAnterior, m.Codigo)
	}

	_, _, err = AjustarStock(tabla, "A", AccionSumar, model.StockMaximo)
	require.NoError(t, err)
	assert.Equal(t, model.StockMaximo, stockDe(t, tabla, "A"))
}

func TestInvalidQuantityBehavesLikeOne(t *testing.T) {
	uno := tablaCombo()
	_, _, err := AjustarStock(uno, "A", AccionRestar, 1)
	require.NoError(t, err)

	invalida := tablaCombo()
	_, _, err = AjustarStock(invalida, "A", AccionRestar, ParseCantidad("-7"))
	require.NoError(t, err)

	assert.Equal(t, uno.ToRows(), invalida.ToRows())
}

// ── CargaMasiva ──────────────────────────────────────────────────────────────

func TestCargaMasivaExample(t *testing.T) {
	tabla := nuevaTabla(model.Producto{Codigo: "X", Tipo: "Producto", Stock: 2})

	res := CargaMasiva(tabla, []dto.CargaMasivaItem{
		item(`"X"`, `5`),
		item(`"missing"`, `1`),
	})

	assert.Equal(t, 7, stockDe(t, tabla, "X"))
	assert.Equal(t, []string{"Stock de X actualizado a 7"}, res.Exitosos)
	assert.Equal(t, []string{"Producto con Codigo 'missing' no encontrado."}, res.Fallidos)
}

func TestCargaMasivaContinuesAfterInvalidItems(t *testing.T) {
	tabla := nuevaTabla(
		model.Producto{Codigo: "X", Tipo: "Producto", Stock: 2},
		model.Producto{Codigo: "123", Tipo: "Producto", Stock: 0},
	)
	items := []dto.CargaMasivaItem{
		item(`"X"`, `-1`),
		item("", `3`),
		item(`"X"`, `"5"`),
		item(`"X"`, ``),
		item(`true`, `1`),
		item(`"X"`, `2.5`),
		item(`123`, `1`),
		item(`"X"`, `0`),
	}

	res := CargaMasiva(tabla, items)

	assert.Len(t, res.Exitosos, 3)
	assert.Len(t, res.Fallidos, 5)
	assert.Equal(t, len(items), len(res.Exitosos)+len(res.Fallidos))
	assert.Equal(t, []string{
		"Datos inválidos para un producto (Codigo: X, Cantidad: -1).",
		"Datos inválidos para un producto (Codigo: null, Cantidad: 3).",
		"Datos inválidos para un producto (Codigo: X, Cantidad: 5).",
		"Datos inválidos para un producto (Codigo: X, Cantidad: null).",
		"Datos inválidos para un producto (Codigo: true, Cantidad: 1).",
	}, res.Fallidos)
	assert.Equal(t, 4, stockDe(t, tabla, "X"), "2 + trunc(2.5) + 0")
	assert.Equal(t, 1, stockDe(t, tabla, "123"))
}

func TestCargaMasivaDoesNotExpandCombos(t *testing.T) {
	tabla := tablaCombo()

	res := CargaMasiva(tabla, []dto.CargaMasivaItem{item(`"A"`, `3`)})

	require.Empty(t, res.Fallidos)
	assert.Equal(t, 8, stockDe(t, tabla, "A"))
	assert.Equal(t, 10, stockDe(t, tabla, "B"))
	assert.Equal(t, 0, stockDe(t, tabla, "C"))
}

func TestCargaMasivaNeverDecreasesStock(t *testing.T) {
	tabla := tablaCombo()
	antes := map[string]int{}
	for _, p := range tabla.Productos {
		antes[p.Codigo] = p.Stock
	}

	CargaMasiva(tabla, []dto.CargaMasivaItem{
		item(`"B"`, `0`), item(`"C"`, `-5`), item(`"D"`, `1e1`),
	})

	for _, p := range tabla.Productos {
		assert.GreaterOrEqual(t, p.Stock, antes[p.Codigo], p.Codigo)
	}
	assert.Equal(t, 14, stockDe(t, tabla, "D"))
}

func TestCargaMasivaHugeQuantityNeverWraps(t *testing.T) {
	tabla := nuevaTabla(model.Producto{Codigo: "X", Tipo: "Producto", Stock: 50})

	res := CargaMasiva(tabla, []dto.CargaMasivaItem{
		item(`"X"`, `10000000000000000000`),
		item(`"X"`, `1e300`),
	})

	assert.Empty(t, res.Fallidos)
	require.Len(t, res.Exitosos, 2)
	assert.Equal(t, model.StockMaximo, stockDe(t, tabla, "X"))
	assert.Equal(t, fmt.Sprintf("Stock de X actualizado a %d", model.StockMaximo), res.Exitosos[1])
}

func TestCargaMasivaEmptyBatch(t *testing.T) {
	res := CargaMasiva(tablaCombo(), nil)
	assert.NotNil(t, res.Exitosos)
	assert.NotNil(t, res.Fallidos)
	assert.Empty(t, res.Exitosos)
	assert.Empty(t, res.Fallidos)
}

// ── Read-only helpers ────────────────────────────────────────────────────────

func TestObtenerProducto(t *testing.T) {
	tabla := tablaCombo()
	p, err := ObtenerProducto(tabla, "B")
	require.NoError(t, err)
	assert.Equal(t, 10, p.Stock)

	_, err = ObtenerProducto(tabla, "nope")
	assert.ErrorIs(t, err, ErrProductoNoEncontrado)
}

func TestExportarStockDropsEmptyRowsAndBlanksAsEmptyString(t *testing.T) {
	tabla := &model.Tabla{
		Columnas:  []string{"Codigo", "Nombre", "Tipo", "Stock", "Componentes", "Proveedor", ""},
		Productos: []model.Producto{
			{Codigo: "A", Nombre: "Combo", Tipo: "Combo", Stock: 2, Componentes: "B"},
			{Vacia: true},
			{Codigo: "B", Tipo: "Producto", Stock: 0, Extra: map[string]string{"Proveedor": "ACME"}},
		},
	}

	rows := ExportarStock(tabla)

	require.Len(t, rows, 2)
	assert.Equal(t, map[string]any{
		"Codigo": "A", "Nombre": "Combo", "Tipo": "Combo", "Stock": 2, "Componentes": "B", "Proveedor": "",
	}, rows[0])
	assert.Equal(t, "", rows[1]["Nombre"])
	assert.Equal(t, "ACME", rows[1]["Proveedor"])
	assert.Equal(t, 0, rows[1]["Stock"])
}

func TestCodigosProducto(t *testing.T) {
	tabla := tablaCombo()
	tabla.Productos = append(tabla.Productos,
		model.Producto{Codigo: "E", Tipo: " producto "},
		model.Producto{Codigo: "S", Tipo: "Servicio"},
		model.Producto{Vacia: true},
	)
	assert.Equal(t, []string{"B", "C", "D", "E"}, CodigosProducto(tabla))
}
