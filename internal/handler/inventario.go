package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"stockmaster/internal/apierror"
	"stockmaster/internal/dto"
	"stockmaster/internal/service"

	"github.com/gin-gonic/gin"
)

// MaxCargaMasivaBytes bounds the bulk-load request body.
const MaxCargaMasivaBytes = 2 << 20

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// FormularioCarga renders the bulk-load page with the plain product codes.
// GET /masivo
func (h *InventarioHandler) FormularioCarga(c *gin.Context) {
	codigos, err := h.svc.CodigosProducto(c.Request.Context())
	if err != nil {
		textError(c, "Error al conectar con la base de datos", err)
		return
	}
	c.HTML(http.StatusOK, "carga_masiva.html", gin.H{"product_ids": codigos})
}

// CargaMasiva applies a JSON array of received quantities. Per-item problems
// are reported in "failed"; only a body that is not an array is rejected.
// POST /masivo
func (h *InventarioHandler) CargaMasiva(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxCargaMasivaBytes))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("La carga supera el tamaño máximo permitido"))
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el cuerpo de la solicitud"))
		return
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil || raws == nil {
		c.JSON(http.StatusBadRequest, apierror.New("Formato de datos inválido. Se esperaba una lista de productos."))
		return
	}

	items := make([]dto.CargaMasivaItem, len(raws))
	for i, raw := range raws {
		// A non-object element leaves the item zero-valued and fails validation.
		_ = json.Unmarshal(raw, &items[i])
	}

	resp, err := h.svc.CargarMasivo(c.Request.Context(), items)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "Ocurrió un error interno al procesar la carga", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
