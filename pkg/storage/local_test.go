package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chameleon-sec/chameleon/pkg/engagement"
	"github.com/chameleon-sec/chameleon/pkg/graph"
	"github.com/chameleon-sec/chameleon/pkg/playbook"
	"github.com/chameleon-sec/chameleon/pkg/recon"
)

func newTestBackend(t *testing.T) Backend {
	t.Helper()
	cfg := &Config{WorkspaceRoot: t.TempDir()}
	require.NoError(t, cfg.Validate())

	backend, err := NewBackend(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, backend.Initialize(context.Background()))
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func testPlaybooks() []playbook.Playbook {
	return []playbook.Playbook{
		{ID: "http_recon", Name: "HTTP Server Recon", TechPattern: "http",
			Commands: []string{"curl -I {target}"}, Effectiveness: 0.7},
		{ID: "ssh_bruteforce", Name: "SSH Bruteforce", TechPattern: "openssh",
			Commands: []string{"hydra ssh://{target}"}, Effectiveness: 0.65},
	}
}

func testEngagement(id, target string, ts time.Time) *engagement.Engagement {
	g := graph.New()
	g.AddNode(graph.Node{ID: "http:80", Kind: graph.KindService})
	return &engagement.Engagement{
		ID:        id,
		Target:    target,
		Timestamp: ts,
		TechStack: recon.TechStack{Target: target, Services: []recon.Service{{Name: "http", Port: "80"}}},
		Graph:     g,
		Results:   []playbook.Recommendation{{PlaybookID: "http_recon", Confidence: 0.63}},
	}
}

func TestCreateSurfacesPersistenceFailure(t *testing.T) {
	cfg := &Config{WorkspaceRoot: t.TempDir()}
	require.NoError(t, cfg.Validate())
	backend, err := NewBackend(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, backend.Initialize(context.Background()))
	t.Cleanup(func() { _ = backend.Close() })

	// Simulate the workspace vanishing between startup and write.
	require.NoError(t, os.RemoveAll(filepath.Join(cfg.WorkspaceRoot, engagementsDir)))

	err = backend.Engagements().Create(context.Background(),
		testEngagement("eng_gone", "example.com", time.Now().UTC()))
	require.Error(t, err)
	assert.True(t, IsPersistenceFailed(err))

	var pe *PersistenceError
	assert.ErrorAs(t, err, &pe)
}

func TestInitializeIsIdempotent(t *testing.T) {
	backend := newTestBackend(t)
	require.NoError(t, backend.Initialize(context.Background()))
}

func TestSeedAndList(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Playbooks().Seed(ctx, testPlaybooks()))

	books, err := backend.Playbooks().List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
}

func TestSeedIsIdempotent(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Playbooks().Seed(ctx, testPlaybooks()))

	// Second seed with a different catalog must not overwrite or append.
	other := []playbook.Playbook{{ID: "other", Name: "Other", TechPattern: "x", Effectiveness: 0.1}}
	require.NoError(t, backend.Playbooks().Seed(ctx, other))

	books, err := backend.Playbooks().List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)

	_, err = backend.Playbooks().Get(ctx, "other")
	assert.True(t, IsNotFound(err))
}

func TestGetPlaybook(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()
	require.NoError(t, backend.Playbooks().Seed(ctx, testPlaybooks()))

	pb, err := backend.Playbooks().Get(ctx, "http_recon")
	require.NoError(t, err)
	assert.Equal(t, "HTTP Server Recon", pb.Name)

	_, err = backend.Playbooks().Get(ctx, "missing")
	assert.True(t, IsNotFound(err))
}

func TestEngagementRoundTrip(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	original := testEngagement("eng_roundtrip", "example.com", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, backend.Engagements().Create(ctx, original))

	reloaded, err := backend.Engagements().Get(ctx, "eng_roundtrip")
	require.NoError(t, err)

	assert.Equal(t, original.ID, reloaded.ID)
	assert.Equal(t, original.Target, reloaded.Target)
	assert.True(t, original.Timestamp.Equal(reloaded.Timestamp))
	assert.Equal(t, original.TechStack, reloaded.TechStack)
	assert.Equal(t, original.Results, reloaded.Results)
	require.NotNil(t, reloaded.Graph)
	assert.Equal(t, original.Graph.Nodes(), reloaded.Graph.Nodes())
	assert.Equal(t, original.Graph.Edges(), reloaded.Graph.Edges())
}

func TestCreateDuplicateEngagement(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	eng := testEngagement("eng_dup", "example.com", time.Now())
	require.NoError(t, backend.Engagements().Create(ctx, eng))

	err := backend.Engagements().Create(ctx, eng)
	assert.True(t, IsAlreadyExists(err))
}

func TestCreateRejectsInvalidEngagement(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	err := backend.Engagements().Create(ctx, &engagement.Engagement{Target: "example.com"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = backend.Engagements().Create(ctx, &engagement.Engagement{ID: "eng_x"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListEngagementsNewestFirstWithLimit(t *testing.T) {
	backend := newTestBackend(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"eng_a", "eng_b", "eng_c"} {
		eng := testEngagement(id, "example.com", base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, backend.Engagements().Create(ctx, eng))
	}

	records, err := backend.Engagements().List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "eng_c", records[0].ID)
	assert.Equal(t, "eng_b", records[1].ID)
}

func TestListEngagementsDefaultLimit(t *testing.T) {
	cfg := &Config{WorkspaceRoot: t.TempDir(), DefaultListLimit: 2, MaxListLimit: 5}
	require.NoError(t, cfg.Validate())
	backend, err := NewBackend(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, backend.Initialize(context.Background()))
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"eng_a", "eng_b", "eng_c"} {
		require.NoError(t, backend.Engagements().Create(ctx, testEngagement(id, "example.com", base.Add(time.Duration(i)*time.Minute))))
	}

	records, err := backend.Engagements().List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 2, "non-positive limit falls back to the default")

	records, err = backend.Engagements().List(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, records, 3, "oversized limit clamps to the maximum, which exceeds record count here")
}

func TestClosedBackendRejectsOperations(t *testing.T) {
	backend := newTestBackend(t)
	require.NoError(t, backend.Close())

	_, err := backend.Playbooks().List(context.Background())
	assert.ErrorIs(t, err, ErrClosed)

	err = backend.Engagements().Create(context.Background(), testEngagement("eng_x", "example.com", time.Now()))
	assert.ErrorIs(t, err, ErrClosed)
}
