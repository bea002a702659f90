package engagement

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chameleon-sec/chameleon/pkg/graph"
	"github.com/chameleon-sec/chameleon/pkg/playbook"
	"github.com/chameleon-sec/chameleon/pkg/recon"
)

type memStore struct {
	created []*Engagement
	err     error
}

func (m *memStore) Create(ctx context.Context, eng *Engagement) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, eng)
	return nil
}

func (m *memStore) Get(ctx context.Context, id string) (*Engagement, error) {
	for _, eng := range m.created {
		if eng.ID == id {
			return eng, nil
		}
	}
	return nil, context.Canceled
}

func (m *memStore) List(ctx context.Context, limit int) ([]Engagement, error) {
	out := make([]Engagement, 0, len(m.created))
	for _, eng := range m.created {
		out = append(out, *eng)
	}
	return out, nil
}

func TestNewIDFormat(t *testing.T) {
	id := NewID()
	assert.True(t, strings.HasPrefix(id, IDPrefix))
	assert.Greater(t, len(id), len(IDPrefix))
}

func TestNewIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.False(t, seen[id], "duplicate engagement ID %s", id)
		seen[id] = true
	}
}

func TestRecordPersistsEngagement(t *testing.T) {
	store := &memStore{}
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	recorder := NewRecorder(store).WithClock(func() time.Time { return fixed })

	stack := recon.TechStack{Target: "example.com", Services: []recon.Service{{Name: "http", Port: "80"}}}
	results := []playbook.Recommendation{{PlaybookID: "http_recon", Confidence: 0.63}}

	eng, err := recorder.Record(context.Background(), stack, graph.New(), results)

	require.NoError(t, err)
	require.Len(t, store.created, 1)
	assert.Equal(t, eng, store.created[0])
	assert.Equal(t, "example.com", eng.Target)
	assert.Equal(t, fixed, eng.Timestamp)
	assert.Equal(t, results, eng.Results)
}

func TestRecordNilResultsBecomeEmptySlice(t *testing.T) {
	store := &memStore{}
	eng, err := NewRecorder(store).Record(context.Background(), recon.TechStack{Target: "example.com"}, graph.New(), nil)

	require.NoError(t, err)
	require.NotNil(t, eng.Results)
	assert.Empty(t, eng.Results)
}

func TestRecordCancelledContextDoesNotPersist(t *testing.T) {
	store := &memStore{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRecorder(store).Record(ctx, recon.TechStack{Target: "example.com"}, graph.New(), nil)

	require.Error(t, err)
	assert.Empty(t, store.created, "cancelled runs must not leave partial records")
}

func TestRecordStoreFailureIsFatal(t *testing.T) {
	store := &memStore{err: assert.AnError}
	_, err := NewRecorder(store).Record(context.Background(), recon.TechStack{Target: "example.com"}, graph.New(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
