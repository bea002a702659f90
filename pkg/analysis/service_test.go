package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chameleon-sec/chameleon/pkg/playbook"
	"github.com/chameleon-sec/chameleon/pkg/recon"
	"github.com/chameleon-sec/chameleon/pkg/storage"
)

type fakeSource struct {
	services []recon.Service
	err      error
	calls    int
}

func (f *fakeSource) Discover(ctx context.Context, target string) ([]recon.Service, error) {
	f.calls++
	return f.services, f.err
}

type fakeIntel struct {
	payload json.RawMessage
	err     error
}

func (f *fakeIntel) Lookup(ctx context.Context, target string) (json.RawMessage, error) {
	return f.payload, f.err
}

func newTestBackend(t *testing.T) storage.Backend {
	t.Helper()
	cfg := &storage.Config{WorkspaceRoot: t.TempDir()}
	require.NoError(t, cfg.Validate())
	backend, err := storage.NewBackend(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, backend.Initialize(context.Background()))
	t.Cleanup(func() { _ = backend.Close() })

	seed, err := playbook.SeedCatalog()
	require.NoError(t, err)
	require.NoError(t, backend.Playbooks().Seed(context.Background(), seed))
	return backend
}

func TestRunRejectsInvalidTargetBeforeSideEffects(t *testing.T) {
	source := &fakeSource{}
	backend := newTestBackend(t)
	svc := NewService(source, nil, backend, playbook.NewMatcher())

	_, err := svc.Run(context.Background(), Params{Target: "example.com; rm -rf /"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTarget)
	assert.Zero(t, source.calls, "no scan may run for an invalid target")

	records, listErr := backend.Engagements().List(context.Background(), 10)
	require.NoError(t, listErr)
	assert.Empty(t, records, "no engagement may be persisted for an invalid target")
}

func TestRunProducesRankedRecommendationsAndPersists(t *testing.T) {
	source := &fakeSource{services: []recon.Service{
		{Name: "http", Port: "80", Product: "WordPress"},
		{Name: "ssh", Port: "22", Product: "OpenSSH"},
	}}
	backend := newTestBackend(t)
	svc := NewService(source, nil, backend, playbook.NewMatcher())

	report, err := svc.Run(context.Background(), Params{Target: "example.com"})

	require.NoError(t, err)
	require.NotNil(t, report.Engagement)
	require.NotEmpty(t, report.Recommendations)

	// Seed catalog: wordpress_exploit 0.85 and http_recon 0.7 match "http/WordPress",
	// ssh_bruteforce 0.65 matches "OpenSSH". Highest confidence first.
	assert.Equal(t, "wordpress_exploit", report.Recommendations[0].PlaybookID)
	for i := 1; i < len(report.Recommendations); i++ {
		assert.GreaterOrEqual(t,
			report.Recommendations[i-1].Confidence,
			report.Recommendations[i].Confidence)
	}

	reloaded, err := backend.Engagements().Get(context.Background(), report.Engagement.ID)
	require.NoError(t, err)
	assert.Equal(t, "example.com", reloaded.Target)
	assert.Equal(t, report.Recommendations, reloaded.Results)
}

func TestRunScanFailureDegradesToEmptyCatalog(t *testing.T) {
	source := &fakeSource{err: fmt.Errorf("network unreachable")}
	backend := newTestBackend(t)
	svc := NewService(source, nil, backend, playbook.NewMatcher())

	report, err := svc.Run(context.Background(), Params{Target: "example.com"})

	require.NoError(t, err, "scan failure degrades, it does not fail the analysis")
	assert.Empty(t, report.Recommendations)
	require.NotEmpty(t, report.Engagement.TechStack.Errors)
	assert.Contains(t, report.Engagement.TechStack.Errors[0], "scan acquisition failed")
}

func TestRunIntelFailureDegrades(t *testing.T) {
	source := &fakeSource{services: []recon.Service{{Name: "http", Port: "80"}}}
	intel := &fakeIntel{err: fmt.Errorf("status 401")}
	backend := newTestBackend(t)
	svc := NewService(source, intel, backend, playbook.NewMatcher())

	report, err := svc.Run(context.Background(), Params{Target: "example.com"})

	require.NoError(t, err)
	assert.Nil(t, report.Engagement.TechStack.Intelligence)
	require.NotEmpty(t, report.Engagement.TechStack.Errors)
	assert.Contains(t, report.Engagement.TechStack.Errors[0], "intelligence lookup failed")
	assert.NotEmpty(t, report.Recommendations, "recommendations still produced without intel")
}

func TestRunAttachesIntelligence(t *testing.T) {
	source := &fakeSource{services: []recon.Service{{Name: "http", Port: "80"}}}
	intel := &fakeIntel{payload: json.RawMessage(`{"org":"ACME"}`)}
	backend := newTestBackend(t)
	svc := NewService(source, intel, backend, playbook.NewMatcher())

	report, err := svc.Run(context.Background(), Params{Target: "example.com"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"org":"ACME"}`, string(report.Engagement.TechStack.Intelligence))
}

func TestRunCancelledContextDoesNotPersist(t *testing.T) {
	source := &fakeSource{services: []recon.Service{{Name: "http", Port: "80"}}}
	backend := newTestBackend(t)
	svc := NewService(source, nil, backend, playbook.NewMatcher())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx, Params{Target: "example.com"})
	require.Error(t, err)

	records, listErr := backend.Engagements().List(context.Background(), 10)
	require.NoError(t, listErr)
	assert.Empty(t, records)
}
