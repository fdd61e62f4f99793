package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockmaster/internal/config"
	"stockmaster/internal/infra"
	"stockmaster/internal/metrics"
	"stockmaster/internal/middleware"
	"stockmaster/internal/repository"
	"stockmaster/internal/router"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open stock store")
	}
	defer closeStore()

	var cb *infra.CircuitBreaker
	if cfg.StoreBreakerThreshold > 0 {
		cb = infra.NewCircuitBreaker(infra.CircuitBreakerConfig{
			FailureThreshold: cfg.StoreBreakerThreshold,
			OpenTimeout:      time.Duration(cfg.StoreBreakerTimeoutSeconds) * time.Second,
		})
		repo = repository.NewBreakerTablaRepository(repo, cb)
	}

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	rl := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	go rl.RunPurge(ctx, 5*time.Minute)

	r := router.New(cfg, repo, cb, rl)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("driver", cfg.StoreDriver).Msgf("stockmaster listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
