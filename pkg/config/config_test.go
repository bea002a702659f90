package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Load(nil, ""))

	cfg := m.Get()
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 10*time.Minute, cfg.Recon.ScanTimeout)
	assert.Equal(t, 300*time.Second, cfg.Exec.Timeout)
	assert.Contains(t, cfg.Exec.AllowedTools, "nmap")
	assert.Equal(t, 10, cfg.Engagements.DefaultLimit)
	assert.Equal(t, 100, cfg.Engagements.MaxLimit)
	assert.Empty(t, cfg.Recon.ShodanAPIKey, "secrets have no default")
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chameleon.yaml")
	content := `
server:
  port: 9100
exec:
  allowed_tools:
    - nmap
    - curl
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m := NewManager()
	require.NoError(t, m.Load(nil, path))

	cfg := m.Get()
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, []string{"nmap", "curl"}, cfg.Exec.AllowedTools)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("CHAMELEON_SHODAN_API_KEY", "test-key-from-env")
	t.Setenv("CHAMELEON_LOG_LEVEL", "DEBUG")

	m := NewManager()
	require.NoError(t, m.Load(nil, ""))

	cfg := m.Get()
	assert.Equal(t, "test-key-from-env", cfg.Recon.ShodanAPIKey)
	assert.Equal(t, "debug", cfg.Log.Level, "level is lower-cased after load")
}

func TestLoadUnmappedEnvVariablesIgnored(t *testing.T) {
	t.Setenv("CHAMELEON_SERVER_PORT", "12345")

	m := NewManager()
	require.NoError(t, m.Load(nil, ""))
	assert.Equal(t, 8000, m.Get().Server.Port, "only explicitly mapped variables load")
}

func TestLoadFlagOverrides(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags)
	BindServerFlags(flags)
	require.NoError(t, flags.Parse([]string{"--server.port", "9999", "--debug"}))

	m := NewManager()
	require.NoError(t, m.Load(flags, ""))

	cfg := m.Get()
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level, "--debug forces debug level")
}

func TestLoadMissingConfigFileFails(t *testing.T) {
	m := NewManager()
	err := m.Load(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPostProcessClampsDefaultLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chameleon.yaml")
	content := `
engagements:
  default_limit: 500
  max_limit: 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m := NewManager()
	require.NoError(t, m.Load(nil, path))
	assert.Equal(t, 50, m.Get().Engagements.DefaultLimit)
}
