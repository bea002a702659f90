package storage

import (
	"context"
	"fmt"
)

// Factory is a function that creates a Backend instance. The indirection
// lets deployments substitute a database-backed implementation without
// changing callers.
type Factory func(ctx context.Context, cfg *Config) (Backend, error)

// DefaultFactory is the backend factory used by NewBackend.
var DefaultFactory Factory = NewLocalBackend

// NewBackend validates the configuration and creates a backend using the
// current DefaultFactory.
func NewBackend(ctx context.Context, cfg *Config) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage configuration: %w", err)
	}
	if DefaultFactory == nil {
		return nil, fmt.Errorf("no storage backend factory registered")
	}
	backend, err := DefaultFactory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage backend: %w", err)
	}
	return backend, nil
}
