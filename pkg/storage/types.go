// Package storage persists the playbook catalog and the engagement log
// behind a backend interface, so the file-based implementation can be swapped
// for a database without touching the engine.
package storage

import (
	"context"

	"github.com/chameleon-sec/chameleon/pkg/engagement"
	"github.com/chameleon-sec/chameleon/pkg/playbook"
)

// DefaultListLimit bounds engagement listings when the caller supplies no
// limit or a non-positive one.
const DefaultListLimit = 10

// DefaultMaxListLimit caps engagement listings regardless of the caller's
// limit.
const DefaultMaxListLimit = 100

// Backend is the storage entry point. The playbook store is effectively
// read-only after seeding; the engagement store is append-mostly.
type Backend interface {
	// Initialize prepares the backend (directories, seed data). Idempotent.
	Initialize(ctx context.Context) error

	// Playbooks returns the playbook catalog store.
	Playbooks() PlaybookStore

	// Engagements returns the engagement record store.
	Engagements() EngagementStore

	// Close releases backend resources. Safe to call twice.
	Close() error
}

// PlaybookStore holds the seeded playbook catalog.
type PlaybookStore interface {
	// Seed inserts the catalog if and only if the store is empty.
	Seed(ctx context.Context, books []playbook.Playbook) error

	// List returns every playbook in catalog order.
	List(ctx context.Context) ([]playbook.Playbook, error)

	// Get returns one playbook by ID.
	Get(ctx context.Context, id string) (*playbook.Playbook, error)
}

// EngagementStore is the append-mostly engagement log. It satisfies
// engagement.Store.
type EngagementStore interface {
	// Create atomically persists a new engagement record.
	Create(ctx context.Context, eng *engagement.Engagement) error

	// Get returns one engagement by ID.
	Get(ctx context.Context, id string) (*engagement.Engagement, error)

	// List returns engagements ordered by timestamp descending. Non-positive
	// limits are clamped to the default, oversized ones to the maximum.
	List(ctx context.Context, limit int) ([]engagement.Engagement, error)
}
