package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chameleon-sec/chameleon/pkg/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Engagements.WorkspaceDir = t.TempDir()
	cfg.Server.Port = 0
	return cfg
}

func TestNewWiresDefaults(t *testing.T) {
	deps := &Deps{Logger: zerolog.Nop()}

	application, err := New(context.Background(), testConfig(t), deps)
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Storage.Close() })

	assert.NotNil(t, application.HTTP)
	assert.NotNil(t, deps.Storage, "storage backend is created from configuration")
	assert.NotNil(t, deps.Analyzer, "analysis service is wired by default")
	assert.NotNil(t, deps.Dispatcher, "dispatcher is wired by default")
	assert.False(t, application.Ready.Load(), "not ready until Run")
}

func TestNewSeedsPlaybookCatalog(t *testing.T) {
	deps := &Deps{Logger: zerolog.Nop()}

	_, err := New(context.Background(), testConfig(t), deps)
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Storage.Close() })

	books, err := deps.Storage.Playbooks().List(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, books, "seed catalog is inserted at startup")
}

func TestNewIsIdempotentAcrossRestarts(t *testing.T) {
	cfg := testConfig(t)

	first := &Deps{Logger: zerolog.Nop()}
	_, err := New(context.Background(), cfg, first)
	require.NoError(t, err)
	require.NoError(t, first.Storage.Close())

	second := &Deps{Logger: zerolog.Nop()}
	_, err = New(context.Background(), cfg, second)
	require.NoError(t, err, "second startup over the same workspace must not fail")
	t.Cleanup(func() { _ = second.Storage.Close() })
}

func TestHealthEndpointsMounted(t *testing.T) {
	deps := &Deps{Logger: zerolog.Nop()}
	application, err := New(context.Background(), testConfig(t), deps)
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Storage.Close() })

	rec := httptest.NewRecorder()
	application.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	application.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "not ready before Run")
}
