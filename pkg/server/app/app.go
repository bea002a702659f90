// Package app assembles the server runtime: storage, the analysis engine,
// the command dispatcher, and the HTTP server, with lifecycle management.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/chameleon-sec/chameleon/pkg/analysis"
	"github.com/chameleon-sec/chameleon/pkg/config"
	"github.com/chameleon-sec/chameleon/pkg/dispatch"
	"github.com/chameleon-sec/chameleon/pkg/playbook"
	"github.com/chameleon-sec/chameleon/pkg/recon"
	"github.com/chameleon-sec/chameleon/pkg/render"
	"github.com/chameleon-sec/chameleon/pkg/server/api"
	"github.com/chameleon-sec/chameleon/pkg/server/httpx"
	"github.com/chameleon-sec/chameleon/pkg/storage"
)

// App orchestrates the server runtime components:
// - HTTP server (triage API)
// - Storage backend lifecycle
type App struct {
	HTTP   *http.Server
	Ready  *atomic.Bool
	Config config.ServerConfig
	Deps   *Deps
}

// New creates and configures a new server application. Storage is initialized
// and the playbook catalog seeded before any endpoint is mounted.
func New(ctx context.Context, cfg config.Config, deps *Deps) (*App, error) {
	deps.Logger.Info().Msg("Initializing server application")

	if deps.Storage == nil {
		storageCfg := &storage.Config{
			WorkspaceRoot:    cfg.Engagements.WorkspaceDir,
			DefaultListLimit: cfg.Engagements.DefaultLimit,
			MaxListLimit:     cfg.Engagements.MaxLimit,
		}
		backend, err := storage.NewBackend(ctx, storageCfg)
		if err != nil {
			return nil, err
		}
		deps.Storage = backend
	}

	deps.Logger.Info().Msg("Initializing storage backend")
	if err := deps.Storage.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	seed, err := playbook.SeedCatalog()
	if err != nil {
		return nil, err
	}
	if err := deps.Storage.Playbooks().Seed(ctx, seed); err != nil {
		return nil, fmt.Errorf("failed to seed playbook catalog: %w", err)
	}

	if deps.Analyzer == nil {
		source := &recon.NmapSource{
			Ports:     cfg.Recon.NmapPorts,
			Timeout:   cfg.Recon.ScanTimeout,
			PingFirst: cfg.Recon.PingFirst,
		}
		var intel recon.IntelClient
		if cfg.Recon.ShodanAPIKey != "" {
			intel = recon.NewShodanClient(cfg.Recon.ShodanAPIKey)
		} else {
			deps.Logger.Warn().Msg("No Shodan API key configured, passive intelligence disabled")
		}
		matcher := playbook.NewMatcher().WithRenderer(render.DOT{})
		deps.Analyzer = analysis.NewService(source, intel, deps.Storage, matcher)
	}

	if deps.Dispatcher == nil {
		deps.Dispatcher = dispatch.New(cfg.Exec.AllowedTools, cfg.Exec.Timeout)
	}

	// Prepare API dependencies
	ready := &atomic.Bool{}
	apiCfg := api.DefaultConfig()
	apiCfg.DefaultEngagementLimit = cfg.Engagements.DefaultLimit
	apiCfg.MaxEngagementLimit = cfg.Engagements.MaxLimit
	apiDeps := &api.Deps{
		Storage:    deps.Storage,
		Analyzer:   deps.Analyzer,
		Dispatcher: deps.Dispatcher,
		Config:     apiCfg,
		Ready:      ready,
	}

	// Create router with all endpoints mounted
	router := httpx.NewRouter(apiDeps)

	// Create HTTP server with middleware
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Addr, cfg.Server.Port),
		Handler:      httpx.Chain(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &App{
		HTTP:   httpServer,
		Ready:  ready,
		Config: cfg.Server,
		Deps:   deps,
	}, nil
}

// Run starts the server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	a.Deps.Logger.Info().
		Str("addr", a.HTTP.Addr).
		Msg("Starting Chameleon server")

	// Start HTTP server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		if err := a.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	// Mark as ready
	a.Ready.Store(true)
	a.Deps.Logger.Info().Msg("Server is ready and accepting connections")

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		a.Deps.Logger.Info().Msg("Shutdown signal received")
	case err := <-serverErr:
		a.Deps.Logger.Error().Err(err).Msg("Server error")
		return err
	}

	// Graceful shutdown
	return a.shutdown()
}

// shutdown performs graceful shutdown of all components.
func (a *App) shutdown() error {
	a.Deps.Logger.Info().Msg("Initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Mark as not ready
	a.Ready.Store(false)

	// Shutdown HTTP server
	a.Deps.Logger.Info().Msg("Shutting down HTTP server...")
	if err := a.HTTP.Shutdown(shutdownCtx); err != nil {
		a.Deps.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
		return err
	}
	a.Deps.Logger.Info().Msg("HTTP server stopped")

	// Close storage backend
	if a.Deps.Storage != nil {
		a.Deps.Logger.Info().Msg("Closing storage backend...")
		if err := a.Deps.Storage.Close(); err != nil {
			a.Deps.Logger.Error().Err(err).Msg("Storage close failed")
			return err
		}
		a.Deps.Logger.Info().Msg("Storage backend closed")
	}

	a.Deps.Logger.Info().Msg("Server shutdown complete")
	return nil
}
