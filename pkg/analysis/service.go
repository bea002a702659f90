// Package analysis orchestrates one triage request: acquire recon data,
// build the attack graph, rank playbooks, and record the engagement.
package analysis

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chameleon-sec/chameleon/pkg/engagement"
	"github.com/chameleon-sec/chameleon/pkg/graph"
	"github.com/chameleon-sec/chameleon/pkg/playbook"
	"github.com/chameleon-sec/chameleon/pkg/recon"
	"github.com/chameleon-sec/chameleon/pkg/storage"
)

// Params describes one analysis request.
type Params struct {
	Target    string
	ScanDepth string
}

// Report is the outcome of one analysis: the persisted engagement plus the
// ranked recommendations returned to the caller.
type Report struct {
	Engagement      *engagement.Engagement
	Recommendations []playbook.Recommendation
}

// Service runs analyses. Each request owns its own tech stack, graph, and
// recommendation set; the service itself holds only read-only collaborators
// and is safe for concurrent requests.
type Service struct {
	source   recon.Source
	intel    recon.IntelClient
	builder  *graph.Builder
	matcher  *playbook.Matcher
	backend  storage.Backend
	recorder *engagement.Recorder
}

// NewService wires an analysis service over the given collaborators. The
// intelligence client may be nil, in which case passive lookup is skipped.
func NewService(source recon.Source, intel recon.IntelClient, backend storage.Backend, matcher *playbook.Matcher) *Service {
	return &Service{
		source:   source,
		intel:    intel,
		builder:  graph.NewBuilder(),
		matcher:  matcher,
		backend:  backend,
		recorder: engagement.NewRecorder(backend.Engagements()),
	}
}

// WithBuilder overrides the graph builder (custom rule tables, tests).
func (s *Service) WithBuilder(b *graph.Builder) *Service {
	s.builder = b
	return s
}

// WithRecorder overrides the engagement recorder (tests).
func (s *Service) WithRecorder(r *engagement.Recorder) *Service {
	s.recorder = r
	return s
}

// Run performs one analysis. Acquisition failures degrade to a partial or
// empty catalog with the error recorded on the stack; a persistence failure
// is fatal because an unrecorded engagement must not be reported as
// analyzed.
func (s *Service) Run(ctx context.Context, params Params) (*Report, error) {
	if !recon.ValidTarget(params.Target) {
		return nil, &InvalidTargetError{Target: params.Target}
	}

	logger := log.With().Str("component", "analysis").Str("target", params.Target).Logger()

	stack := s.acquire(ctx, params, logger)
	g := s.buildGraph(stack, logger)

	books, err := s.backend.Playbooks().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load playbook catalog: %w", err)
	}

	recommendations := s.matcher.Recommend(stack, g, books)

	eng, err := s.recorder.Record(ctx, stack, g, recommendations)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("services", len(stack.Services)).
		Int("recommendations", len(recommendations)).
		Str("engagement_id", eng.ID).
		Msg("Analysis complete")

	return &Report{Engagement: eng, Recommendations: recommendations}, nil
}

// acquire gathers the service catalog and passive intelligence. Both steps
// degrade gracefully: a failed collaborator leaves its error on the stack and
// the analysis continues with whatever data is available.
func (s *Service) acquire(ctx context.Context, params Params, logger zerolog.Logger) recon.TechStack {
	stack := recon.TechStack{Target: params.Target, Services: []recon.Service{}}

	services, err := s.source.Discover(ctx, params.Target)
	if err != nil {
		logger.Warn().Err(err).Msg("Scan acquisition failed, continuing with empty catalog")
		stack.Errors = append(stack.Errors, fmt.Sprintf("scan acquisition failed: %v", err))
	} else if services != nil {
		stack.Services = services
	}

	if s.intel != nil {
		intel, err := s.intel.Lookup(ctx, params.Target)
		if err != nil {
			logger.Warn().Err(err).Msg("Intelligence lookup failed, continuing without it")
			stack.Errors = append(stack.Errors, fmt.Sprintf("intelligence lookup failed: %v", err))
		} else {
			stack.Intelligence = intel
		}
	}

	return stack
}

// buildGraph constructs the attack graph, falling back to an empty graph on
// unexpected input rather than failing the request.
func (s *Service) buildGraph(stack recon.TechStack, logger zerolog.Logger) (g *graph.Graph) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Graph construction failed, using empty graph")
			g = graph.New()
		}
	}()
	return s.builder.Build(stack)
}
