package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"seguraassina/internal/config"
	httpinfra "seguraassina/internal/infra/http"
	"seguraassina/internal/logging"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.FromEnv()

	logger, closer := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer closer.Close()

	gin.SetMode(gin.ReleaseMode)
	srv := httpinfra.NewServer(cfg, logger)
	httpSrv := srv.HTTPServer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("addr", cfg.HTTPAddr).
		Str("version", config.ServiceVersion).
		Int64("max_document_bytes", cfg.MaxDocumentSize()).
		Bool("metrics", cfg.MetricsEnabled).
		Int("rate_limit_budget", cfg.RateLimitBudget).
		Msg("starting " + config.ServiceName)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		logger.Info().Msg("shutting down")
		shutdownErr := httpSrv.Shutdown(shutdownCtx)
		if err := srv.Close(); err != nil {
			logger.Warn().Err(err).Msg("close rate limiter")
		}
		return shutdownErr
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server exited")
		closer.Close()
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}
