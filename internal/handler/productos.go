package handler

import (
	"errors"
	"net/http"
	"net/url"

	"stockmaster/internal/dto"
	"stockmaster/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductosHandler struct{ svc service.InventarioService }

func NewProductosHandler(svc service.InventarioService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// Ver renders the product page. GET /producto/:codigo
func (h *ProductosHandler) Ver(c *gin.Context) {
	codigo := c.Param("codigo")
	p, err := h.svc.Obtener(c.Request.Context(), codigo)
	if errors.Is(err, service.ErrProductoNoEncontrado) {
		c.String(http.StatusNotFound, "Producto no encontrado")
		return
	}
	if err != nil {
		textError(c, "Error al leer el producto", err)
		return
	}
	c.HTML(http.StatusOK, "producto.html", gin.H{
		"id":     p.Codigo,
		"nombre": p.Nombre,
		"stock":  p.Stock,
	})
}

// AjustarStock applies sumar/restar and redirects back to the product page.
// POST /update/:codigo
func (h *ProductosHandler) AjustarStock(c *gin.Context) {
	codigo := c.Param("codigo")
	var req dto.AjusteStockRequest
	if !bindFormAndValidate(c, &req) {
		return
	}

	_, err := h.svc.Ajustar(c.Request.Context(), codigo, req)
	switch {
	case errors.Is(err, service.ErrProductoNoEncontrado):
		c.String(http.StatusNotFound, "Producto no encontrado")
		return
	case errors.Is(err, service.ErrAccionInvalida):
		c.String(http.StatusBadRequest, "Accion invalida")
		return
	case err != nil:
		textError(c, "Error al actualizar el stock", err)
		return
	}
	c.Redirect(http.StatusFound, "/producto/"+url.PathEscape(codigo))
}
