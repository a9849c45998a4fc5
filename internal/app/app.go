// Package app wires together all adapters and the extraction pipeline.
// It provides lifecycle management for the pysym daemon: create, start, stop.
package app

import (
	"fmt"
	"os"

	"github.com/corey/pysym/internal/adapters/bbolt"
	"github.com/corey/pysym/internal/adapters/pyscan"
	"github.com/corey/pysym/internal/adapters/socket"
	"github.com/corey/pysym/internal/config"
	"github.com/corey/pysym/internal/extract"
	"github.com/corey/pysym/internal/ports"
	"github.com/corey/pysym/internal/protocol"
)

// App owns the daemon's components and their lifecycle.
type App struct {
	cfg       *config.Config
	extractor *extract.Extractor
	handler   *protocol.Handler
	stats     *bbolt.Store
	server    *socket.Server
}

// New assembles the daemon from config. primary is the tree-sitter backend,
// or nil when the build or the runtime environment cannot provide it; the
// pure Go scanner is always the fallback.
func New(cfg *config.Config, primary ports.Backend) (*App, error) {
	extractor := extract.New(ports.BackendTreeSitter, primary, pyscan.New())
	handler := protocol.NewHandler(extractor)

	stateDir := config.StateDir()
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	stats, err := bbolt.NewStore(cfg.ResolvedDBPath())
	if err != nil {
		return nil, fmt.Errorf("open stats store: %w", err)
	}

	sockPath := cfg.SocketPath
	if sockPath == "" {
		sockPath = socket.SocketPath(stateDir)
	}

	backends := []string{ports.BackendPyscan}
	if extractor.PrimaryAvailable() {
		backends = append([]string{ports.BackendTreeSitter}, backends...)
	}

	server := socket.NewServer(handler, stats, backends, sockPath)

	return &App{
		cfg:       cfg,
		extractor: extractor,
		handler:   handler,
		stats:     stats,
		server:    server,
	}, nil
}

// Start begins serving on the Unix socket.
func (a *App) Start() error {
	return a.server.Start()
}

// Stop shuts down the server and closes the stats store.
func (a *App) Stop() error {
	err := a.server.Stop()
	if cerr := a.stats.Close(); err == nil {
		err = cerr
	}
	return err
}

// ShutdownCh is closed when a remote shutdown request arrives.
func (a *App) ShutdownCh() <-chan struct{} {
	return a.server.ShutdownCh()
}

// SocketPath returns the socket the daemon listens on.
func (a *App) SocketPath() string {
	return a.server.Addr()
}

// Backends lists the available parsing backends, primary first.
func (a *App) Backends() []string {
	if a.extractor.PrimaryAvailable() {
		return []string{ports.BackendTreeSitter, ports.BackendPyscan}
	}
	return []string{ports.BackendPyscan}
}
