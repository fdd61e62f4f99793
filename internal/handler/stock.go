package handler

import (
	"net/http"

	"stockmaster/internal/repository"
	"stockmaster/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type StockHandler struct{ svc service.InventarioService }

func NewStockHandler(svc service.InventarioService) *StockHandler {
	return &StockHandler{svc: svc}
}

// ExportarJSON returns every non-empty row. GET /api/stock
func (h *StockHandler) ExportarJSON(c *gin.Context) {
	_, rows, err := h.svc.Exportar(c.Request.Context())
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "Error al conectar con la base de datos", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ExportarXLSX streams the table as a workbook. GET /api/stock.xlsx
func (h *StockHandler) ExportarXLSX(c *gin.Context) {
	t, _, err := h.svc.Exportar(c.Request.Context())
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "Error al conectar con la base de datos", err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	if err := repository.WriteSheet(f, sheet, t); err != nil {
		jsonError(c, http.StatusInternalServerError, "Error al generar el archivo", err)
		return
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "Error al generar el archivo", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="stock.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Inicio renders the landing page. GET /
func Inicio(c *gin.Context) { c.HTML(http.StatusOK, "inicio.html", nil) }

// VistaStock renders the static stock table page. GET /stock
func VistaStock(c *gin.Context) { c.HTML(http.StatusOK, "stock.html", nil) }
