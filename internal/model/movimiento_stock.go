package model

// Movement types.
const (
	MovimientoAjuste      = "ajuste_manual"
	MovimientoComponente  = "componente_combo"
	MovimientoCargaMasiva = "carga_masiva"
)

// MovimientoStock records one stock change applied to a row during a request.
// Cantidad is the requested signed delta; StockNuevo may differ from
// StockAnterior+Cantidad when the floor at zero applied.
type MovimientoStock struct {
	Codigo        string
	Tipo          string
	Cantidad      int
	StockAnterior int
	StockNuevo    int
}
