package engagement

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chameleon-sec/chameleon/pkg/graph"
	"github.com/chameleon-sec/chameleon/pkg/playbook"
	"github.com/chameleon-sec/chameleon/pkg/recon"
)

// Store is the persistence surface the recorder writes to. The storage
// backend implements it; inserts must be atomic so concurrent writers cannot
// corrupt each other's records.
type Store interface {
	Create(ctx context.Context, eng *Engagement) error
	Get(ctx context.Context, id string) (*Engagement, error)
	List(ctx context.Context, limit int) ([]Engagement, error)
}

// Recorder assembles and persists engagement records.
type Recorder struct {
	store Store
	now   func() time.Time
}

// NewRecorder returns a recorder over the given store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

// WithClock overrides the timestamp source for tests.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// Record persists the outcome of one analysis as a new engagement. A
// cancelled run is never persisted; a storage failure is fatal for the
// request, because an engagement that cannot be durably recorded must not be
// reported as successfully analyzed.
func (r *Recorder) Record(ctx context.Context, stack recon.TechStack, g *graph.Graph, results []playbook.Recommendation) (*Engagement, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled, not recording: %w", err)
	}

	if results == nil {
		results = []playbook.Recommendation{}
	}
	eng := &Engagement{
		ID:        NewID(),
		Target:    stack.Target,
		Timestamp: r.now().UTC(),
		TechStack: stack,
		Graph:     g,
		Results:   results,
	}

	if err := r.store.Create(ctx, eng); err != nil {
		return nil, fmt.Errorf("persist engagement: %w", err)
	}

	log.Info().Str("component", "engagement").
		Str("engagement_id", eng.ID).
		Str("target", eng.Target).
		Int("recommendations", len(results)).
		Msg("Engagement recorded")
	return eng, nil
}
