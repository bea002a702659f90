// pkg/config/config.go
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix namespaces the environment variables the loader reads.
const envPrefix = "CHAMELEON_"

// envKeyMap maps environment variables to configuration keys. Secrets enter
// the process exclusively through this path.
var envKeyMap = map[string]string{
	"CHAMELEON_SHODAN_API_KEY": "recon.shodan_api_key",
	"CHAMELEON_WORKSPACE_DIR":  "engagements.workspace_dir",
	"CHAMELEON_LOG_LEVEL":      "log.level",
	"CHAMELEON_EXEC_TIMEOUT":   "exec.timeout",
}

// Global Koanf instance, initialized once at startup.
var (
	k    *koanf.Koanf
	once sync.Once
)

// InitGlobalConfig initializes the global Koanf instance. This should be
// called early in the application lifecycle, before Load.
func InitGlobalConfig() {
	once.Do(func() {
		k = koanf.New(".")
	})
}

// Manager handles loading and accessing application configuration.
type Manager struct {
	koanfInstance *koanf.Koanf
	currentConfig Config
	mu            sync.RWMutex
}

// NewManager creates a new configuration Manager over the global Koanf
// instance.
func NewManager() *Manager {
	InitGlobalConfig()
	return &Manager{koanfInstance: k}
}

// Load merges configuration sources in precedence order: hardcoded defaults,
// an optional YAML config file, CHAMELEON_* environment variables, then
// command-line flags.
func (m *Manager) Load(flags *pflag.FlagSet, configFilePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.koanfInstance.Load(confmap.Provider(DefaultConfigAsMap(), "."), nil); err != nil {
		return fmt.Errorf("error loading hardcoded defaults into koanf: %w", err)
	}

	if configFilePath != "" {
		if err := m.koanfInstance.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return fmt.Errorf("error loading config file %s: %w", configFilePath, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(key string) string {
		if mapped, ok := envKeyMap[key]; ok {
			return mapped
		}
		// Unmapped CHAMELEON_* variables are ignored.
		return ""
	})
	if err := m.koanfInstance.Load(envProvider, nil); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if flags != nil {
		if err := m.koanfInstance.Load(posflag.Provider(flags, ".", m.koanfInstance), nil); err != nil {
			return fmt.Errorf("error loading command-line flags: %w", err)
		}

		debugFlag := flags.Lookup("debug")
		if debugFlag != nil && debugFlag.Value.String() == "true" {
			_ = m.koanfInstance.Set("log.level", "debug")
		}
	}

	var newCfg Config
	if err := m.koanfInstance.UnmarshalWithConf("", &newCfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("error unmarshaling final config: %w", err)
	}
	m.currentConfig = newCfg
	m.postProcessConfig()

	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfgCopy := m.currentConfig
	return cfgCopy
}

// postProcessConfig normalizes values after loading and unmarshaling.
func (m *Manager) postProcessConfig() {
	m.currentConfig.Log.Level = strings.ToLower(m.currentConfig.Log.Level)
	if m.currentConfig.Engagements.DefaultLimit > m.currentConfig.Engagements.MaxLimit {
		m.currentConfig.Engagements.DefaultLimit = m.currentConfig.Engagements.MaxLimit
	}
}

// DefaultConfigAsMap converts the DefaultConfig struct to the flat map
// confmap.Provider expects, so koanf knows every key.
func DefaultConfigAsMap() map[string]interface{} {
	def := DefaultConfig()
	return map[string]interface{}{
		// Log configuration
		"log.level":  def.Log.Level,
		"log.format": def.Log.Format,
		"log.file":   def.Log.File,

		// Server configuration
		"server.addr":          def.Server.Addr,
		"server.port":          def.Server.Port,
		"server.read_timeout":  def.Server.ReadTimeout,
		"server.write_timeout": def.Server.WriteTimeout,

		// Recon configuration
		"recon.nmap_ports":     def.Recon.NmapPorts,
		"recon.scan_timeout":   def.Recon.ScanTimeout,
		"recon.ping_first":     def.Recon.PingFirst,
		"recon.shodan_api_key": def.Recon.ShodanAPIKey,

		// Exec configuration
		"exec.timeout":       def.Exec.Timeout,
		"exec.allowed_tools": def.Exec.AllowedTools,

		// Engagement store configuration
		"engagements.workspace_dir": def.Engagements.WorkspaceDir,
		"engagements.default_limit": def.Engagements.DefaultLimit,
		"engagements.max_limit":     def.Engagements.MaxLimit,
	}
}

// BindFlags defines global command-line flags corresponding to configuration
// settings.
func BindFlags(flags *pflag.FlagSet) {
	var flagvar bool
	flags.BoolVar(&flagvar, "debug", false, "Enable debug logging")
}
