// Package cli implements the brewlog command tree. It is the application
// root: it constructs the engine once per process and owns the single
// live orchestrator instance.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/openbrew/brewlog/internal/api"
	"github.com/openbrew/brewlog/internal/config"
	"github.com/openbrew/brewlog/internal/conflicts"
	"github.com/openbrew/brewlog/internal/connectivity"
	"github.com/openbrew/brewlog/internal/drafts"
	"github.com/openbrew/brewlog/internal/identity"
	"github.com/openbrew/brewlog/internal/logging"
	"github.com/openbrew/brewlog/internal/queue"
	"github.com/openbrew/brewlog/internal/storage"
	"github.com/openbrew/brewlog/internal/syncer"

	_ "modernc.org/sqlite"
)

// App wires the engine components together with injected dependencies.
type App struct {
	Config    *config.Config
	Log       logging.Logger
	Backend   *storage.Resilient
	Queue     *queue.Queue
	Drafts    *drafts.Store
	Conflicts *conflicts.Store
	Monitor   *connectivity.Monitor
	Identity  *identity.TokenFileProvider
	Syncer    *syncer.Syncer
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	backend, err := storage.NewResilient(ctx, storage.Options{
		DSN:    cfg.DatabaseFile(),
		Dir:    cfg.DataDir,
		Logger: log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	q := queue.New(backend)
	draftStore := drafts.NewStore(backend, q, log)
	conflictStore := conflicts.NewStore(backend)

	monitor := connectivity.NewMonitor(connectivity.Config{
		Signal:       connectivity.NewInterfaceSignal(cfg.SignalPoll),
		Prober:       connectivity.NewHTTPProber(cfg.ProbeURL),
		Logger:       log,
		Throttle:     cfg.Throttle,
		ProbeTimeout: cfg.ProbeTimeout,
		SyncInterval: cfg.SyncInterval,
	})

	tokens := identity.NewTokenFileProvider(cfg.TokenFile())

	remote, err := api.NewHTTPClient(cfg.APIBaseURL, tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize api client: %w", err)
	}

	s := syncer.New(syncer.Config{
		Drafts:    draftStore,
		Conflicts: conflictStore,
		Monitor:   monitor,
		Remote:    remote,
		Identity:  tokens,
		Logger:    log,
	})

	return &App{
		Config:    cfg,
		Log:       log,
		Backend:   backend,
		Queue:     q,
		Drafts:    draftStore,
		Conflicts: conflictStore,
		Monitor:   monitor,
		Identity:  tokens,
		Syncer:    s,
	}, nil
}

func (a *App) Close() error {
	return a.Backend.Close()
}
