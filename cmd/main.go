package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/farhadf/linepulse/internal/adapters/http/api"
	"github.com/farhadf/linepulse/internal/adapters/repository"
	service "github.com/farhadf/linepulse/internal/app"
	"github.com/farhadf/linepulse/internal/config"
	"github.com/farhadf/linepulse/pkg/logger"
	"github.com/farhadf/linepulse/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since the logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := repository.New(ctx, repository.WithDSN(cfg.DBDSN))
	if err != nil {
		log.Error(ctx, "failed to open event store", logger.String("dsn", cfg.DBDSN), logger.Error(err))
		return
	}

	if cfg.AutoSeed {
		if err := seedIfEmpty(ctx, store); err != nil {
			log.Error(ctx, "failed to seed store", logger.Error(err))
			return
		}
	}

	svc := service.New(
		service.WithStore(store),
		service.WithLogger(log),
		service.WithMaxBatchSize(cfg.MaxBatchSize),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// Keep the store gauges current in the background.
	go startGaugeRefresher(ctx, svc, time.Duration(cfg.GaugeRefreshSeconds)*time.Second)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	mux.Handle("/metricsz", metrics.Handler())

	apiServer := api.NewServer(svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// seedIfEmpty loads the deterministic sample dataset unless reference data
// is already present.
func seedIfEmpty(ctx context.Context, store repository.Store) error {
	counts, err := store.Counts(ctx)
	if err != nil {
		return err
	}
	if counts.Workers > 0 {
		return nil
	}
	return store.Reset(ctx)
}

// startGaugeRefresher periodically pushes store cardinalities to the
// metrics registry.
func startGaugeRefresher(ctx context.Context, svc *service.Service, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.RefreshGauges(ctx)
		}
	}
}
