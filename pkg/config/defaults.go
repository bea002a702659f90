package config

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/chameleon-sec/chameleon/pkg/dispatch"
	"github.com/chameleon-sec/chameleon/pkg/storage"
)

// DefaultConfig returns a Config populated with baseline values. Every other
// source (file, environment, flags) overrides these.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
		Server: DefaultServerConfig(),
		Recon: ReconConfig{
			NmapPorts:   "",
			ScanTimeout: 10 * time.Minute,
			PingFirst:   false,
			// The API key has no default; it arrives via
			// CHAMELEON_SHODAN_API_KEY.
			ShodanAPIKey: "",
		},
		Exec: ExecConfig{
			Timeout:      dispatch.DefaultTimeout,
			AllowedTools: dispatch.DefaultAllowedTools(),
		},
		Engagements: EngagementsConfig{
			WorkspaceDir: "~/.local/share/chameleon",
			DefaultLimit: storage.DefaultListLimit,
			MaxLimit:     storage.DefaultMaxListLimit,
		},
	}
}

// DefaultServerConfig returns the default HTTP server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "127.0.0.1",
		Port:         8000,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// BindServerFlags binds server-specific flags, namespaced under "server." to
// match their koanf keys.
func BindServerFlags(flags *pflag.FlagSet) {
	defaults := DefaultServerConfig()

	flags.String("server.addr", defaults.Addr, "Server listen address (use 0.0.0.0 for all interfaces)")
	flags.Int("server.port", defaults.Port, "Server listen port")
	flags.Duration("server.read_timeout", defaults.ReadTimeout, "HTTP read timeout")
	flags.Duration("server.write_timeout", defaults.WriteTimeout, "HTTP write timeout")
}
