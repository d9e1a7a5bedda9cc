// Command server runs the decksmith API: spaced-repetition scheduling
// over a hierarchical card collection with deck sharing.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/decksmith/decksmith/internal/api"
	"github.com/decksmith/decksmith/internal/api/middleware"
	"github.com/decksmith/decksmith/internal/config"
	"github.com/decksmith/decksmith/internal/domain/srs"
	"github.com/decksmith/decksmith/internal/platform/logger"
	"github.com/decksmith/decksmith/internal/platform/memstore"
	"github.com/decksmith/decksmith/internal/platform/postgres"
	"github.com/decksmith/decksmith/internal/service/auth"
	"github.com/decksmith/decksmith/internal/service/hierarchy"
	"github.com/decksmith/decksmith/internal/service/sharing"
	"github.com/decksmith/decksmith/internal/service/study"
	"github.com/decksmith/decksmith/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	kv, cleanup, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	cards := store.NewCardStore(kv, log)
	configs := store.NewDeckConfigStore(kv, log)
	shares := store.NewShareStore(kv, log)
	progress := store.NewProgressStore(kv, log)

	hierarchySvc := hierarchy.NewService(cards, log)
	sharingSvc := sharing.NewService(cards, shares, progress, log)
	studySvc := study.NewService(cards, configs, progress, sharingSvc, srs.NewService(), log)

	verifier, err := auth.NewTokenVerifier(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create token verifier: %w", err)
	}

	router := newRouter(routerDeps{
		authMiddleware: middleware.NewAuthMiddleware(verifier),
		cardHandler:    api.NewCardHandler(cards, log),
		deckHandler:    api.NewDeckHandler(hierarchySvc, configs, log),
		studyHandler:   api.NewStudyHandler(studySvc, log),
		shareHandler:   api.NewShareHandler(sharingSvc, shares, log),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", slog.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		log.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// openStore selects the keyed-store backend. The memory backend serves
// development and tests; postgres is the production path and runs its
// migrations on startup.
func openStore(cfg *config.Config, log *slog.Logger) (store.KeyedStore, func(), error) {
	switch cfg.Store.Backend {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := postgres.Open(ctx, cfg.Store.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := postgres.MigrateUp(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		log.Info("store backend ready", slog.String("backend", "postgres"))
		return postgres.NewKVStore(db, log), func() { _ = db.Close() }, nil

	default:
		log.Info("store backend ready", slog.String("backend", "memory"))
		return memstore.New(), func() {}, nil
	}
}
