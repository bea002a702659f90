// Package api holds the dependencies and shared response helpers for the
// HTTP API endpoints.
package api

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/chameleon-sec/chameleon/pkg/analysis"
	"github.com/chameleon-sec/chameleon/pkg/dispatch"
	"github.com/chameleon-sec/chameleon/pkg/storage"
)

// Analyzer runs one triage analysis. Implemented by *analysis.Service;
// narrowed to an interface so handler tests can substitute fakes.
type Analyzer interface {
	Run(ctx context.Context, params analysis.Params) (*analysis.Report, error)
}

// Dispatcher executes an allow-listed command batch. Implemented by
// *dispatch.Dispatcher.
type Dispatcher interface {
	Run(ctx context.Context, commands []string) (*dispatch.BatchResult, error)
}

// Deps holds dependencies for API handlers. This pattern enables dependency
// injection and easier testing.
type Deps struct {
	Storage    storage.Backend
	Analyzer   Analyzer
	Dispatcher Dispatcher
	Config     Config
	Ready      *atomic.Bool
}

// Config holds API-level settings.
type Config struct {
	// HandlerTimeout bounds request handling for the long-running analyze
	// endpoint.
	HandlerTimeout time.Duration

	// DefaultEngagementLimit applies when GET /engagements has no limit.
	DefaultEngagementLimit int

	// MaxEngagementLimit caps the limit query parameter.
	MaxEngagementLimit int
}

// DefaultConfig returns API defaults: generous handler timeout for scans,
// small listing sizes.
func DefaultConfig() Config {
	return Config{
		HandlerTimeout:         15 * time.Minute,
		DefaultEngagementLimit: storage.DefaultListLimit,
		MaxEngagementLimit:     storage.DefaultMaxListLimit,
	}
}
