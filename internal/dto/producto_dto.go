package dto

// ProductoResponse is the view model of a single worksheet row.
type ProductoResponse struct {
	Codigo      string `json:"codigo"`
	Nombre      string `json:"nombre"`
	Tipo        string `json:"tipo"`
	Stock       int    `json:"stock"`
	Componentes string `json:"componentes,omitempty"`
}
