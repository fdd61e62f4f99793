package handler

import (
	"context"
	"net/http"
	"time"

	"stockmaster/internal/infra"
	"stockmaster/internal/repository"

	"github.com/gin-gonic/gin"
)

// Health reports backing store connectivity and the breaker state.
// Never exposes credentials or internals.
func Health(repo repository.TablaRepository, cb *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		storeStatus := "connected"
		if repo.Ping(ctx) != nil {
			storeStatus = "error"
		}
		breaker := "disabled"
		if cb != nil {
			breaker = cb.State().String()
		}

		status := http.StatusOK
		if storeStatus != "connected" || breaker == infra.CBOpen.String() {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"ok":      status == http.StatusOK,
			"store":   storeStatus,
			"breaker": breaker,
		})
	}
}
