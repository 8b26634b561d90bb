package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/liaison-server/internal/config"
	"github.com/vovakirdan/liaison-server/internal/service/notebook"
	"github.com/vovakirdan/liaison-server/internal/store"
	"github.com/vovakirdan/liaison-server/internal/store/memory"
	"github.com/vovakirdan/liaison-server/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/liaison-server/internal/transport/http"
)

// App wires together the store, the notebook service and the transport.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := openStore(cfg.StoreDriver)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	logger.Info().Str("driver", cfg.StoreDriver).Msg("store initialized")

	if cfg.Seed {
		if err := store.Seed(context.Background(), st, time.Now()); err != nil {
			st.Close()
			return nil, fmt.Errorf("seed store: %w", err)
		}
		logger.Info().Msg("store seeded")
	}

	svc := notebook.New(st)
	server := transporthttp.NewServer(svc, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		store:           st,
		log:             logger,
	}, nil
}

func openStore(driver string) (store.Store, error) {
	switch driver {
	case config.StoreMemory, "":
		return memory.New(), nil
	case config.StoreSQLite:
		return sqlite.New(sqlite.MemoryDSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() stdhttp.Handler {
	return a.server.Handler
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes the store.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
