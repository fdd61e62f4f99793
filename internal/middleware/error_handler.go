package middleware

import (
	"net/http"
	"time"

	"stockmaster/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorMeta tells ErrorHandler how to answer an error attached with c.Error.
// Message is the client-safe text; the attached error itself is only logged.
type ErrorMeta struct {
	Status  int
	Message string
	// Text answers in plain text instead of the JSON envelope (HTML routes).
	Text bool
}

// ErrorHandler logs the last error attached with c.Error and answers it when
// the handler did not write a response. Errors without ErrorMeta become a
// generic 500. Driver errors and stack traces are never sent to clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		meta, ok := err.Meta.(ErrorMeta)
		if !ok {
			meta = ErrorMeta{Status: http.StatusInternalServerError, Message: "Error interno del servidor"}
		}
		log.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Int("status", meta.Status).
			Err(err.Err).
			Msg(meta.Message)

		if c.Writer.Written() {
			return
		}
		if meta.Text {
			c.String(meta.Status, meta.Message)
			return
		}
		c.JSON(meta.Status, apierror.New(meta.Message))
	}
}

// Recovery handles panics and converts them into 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Interface("panic", r).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
			}
		}()
		c.Next()
	}
}

// Logger logs each request with method, path, status, latency, and request_id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
