package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serveWithErrorHandler(h gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/", h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestErrorHandlerAnswersFromMeta(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:5432: i/o timeout")

	t.Run("json", func(t *testing.T) {
		w := serveWithErrorHandler(func(c *gin.Context) {
			_ = c.Error(cause).SetMeta(ErrorMeta{Status: http.StatusBadGateway, Message: "Error al leer la hoja de stock"})
		})
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.JSONEq(t, `{"detail":"Error al leer la hoja de stock"}`, w.Body.String())
	})

	t.Run("text", func(t *testing.T) {
		w := serveWithErrorHandler(func(c *gin.Context) {
			_ = c.Error(cause).SetMeta(ErrorMeta{Status: http.StatusInternalServerError, Message: "Error al leer el producto", Text: true})
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Error al leer el producto", w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	})

	t.Run("without meta", func(t *testing.T) {
		w := serveWithErrorHandler(func(c *gin.Context) { _ = c.Error(cause) })
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"detail":"Error interno del servidor"}`, w.Body.String())
		assert.NotContains(t, w.Body.String(), "10.0.0.1")
	})
}

func TestErrorHandlerKeepsWrittenResponse(t *testing.T) {
	w := serveWithErrorHandler(func(c *gin.Context) {
		c.String(http.StatusTeapot, "ya respondido")
		_ = c.Error(errors.New("late failure"))
	})
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "ya respondido", w.Body.String())
}

func TestErrorHandlerIgnoresCleanRequests(t *testing.T) {
	w := serveWithErrorHandler(func(c *gin.Context) { c.Status(http.StatusNoContent) })
	assert.Equal(t, http.StatusNoContent, w.Code)
}
