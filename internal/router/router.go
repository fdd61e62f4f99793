package router

import (
	"stockmaster/internal/config"
	"stockmaster/internal/handler"
	"stockmaster/internal/infra"
	"stockmaster/internal/middleware"
	"stockmaster/internal/repository"
	"stockmaster/internal/service"
	"stockmaster/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← TablaRepository.
// cb and rl may be nil (breaker disabled, no rate limiting).
func New(cfg *config.Config, repo repository.TablaRepository, cb *infra.CircuitBreaker, rl *middleware.RateLimiter) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	if rl != nil {
		r.Use(rl.Handler())
	}

	r.SetHTMLTemplate(web.Templates())

	// ── Services ─────────────────────────────────────────────────────────────
	inventarioSvc := service.NewInventarioService(repo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productosH := handler.NewProductosHandler(inventarioSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	stockH := handler.NewStockHandler(inventarioSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(repo, cb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/", handler.Inicio)
	r.GET("/producto/:codigo", productosH.Ver)
	r.POST("/update/:codigo", productosH.AjustarStock)

	r.GET("/masivo", inventarioH.FormularioCarga)
	r.POST("/masivo", inventarioH.CargaMasiva)

	r.GET("/stock", handler.VistaStock)
	r.GET("/api/stock", stockH.ExportarJSON)
	r.GET("/api/stock.xlsx", stockH.ExportarXLSX)

	return r
}
