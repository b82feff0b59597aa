package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"etf-fortune/internal/infrastructure/config"
	"etf-fortune/internal/infrastructure/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}

	l := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobal(l)
	l.Info().Str("addr", cfg.HTTP.Addr).Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, l)
	if err != nil {
		l.Fatal().Err(err).Msg("build app failed")
	}
	defer a.Close()

	if err := a.startJobs(); err != nil {
		l.Fatal().Err(err).Msg("register scheduled jobs failed")
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           a.server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		l.Info().Str("addr", cfg.HTTP.Addr).Msg("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		l.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			l.Error().Err(err).Msg("server stopped")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("graceful shutdown failed")
	}
	l.Info().Msg("server stopped")
}
