package dto

import "encoding/json"

// AjusteStockRequest is the form posted by the product page.
// Cantidad stays a string: invalid values fall back to 1 in the service.
// Accion is checked by the service once the product is known to exist.
type AjusteStockRequest struct {
	Cantidad string `form:"cantidad" validate:"max=64"`
	Accion   string `form:"accion" validate:"max=32"`
}

// CargaMasivaItem is one element of the bulk-load payload. Both fields are kept
// raw so that type errors are reported per item instead of failing the batch.
type CargaMasivaItem struct {
	ProductoID       json.RawMessage `json:"producto_id"`
	CantidadRecibida json.RawMessage `json:"cantidad_recibida"`
}

// CargaMasivaResponse is returned by POST /masivo.
type CargaMasivaResponse struct {
	Message    string   `json:"message"`
	Successful []string `json:"successful"`
	Failed     []string `json:"failed"`
}
