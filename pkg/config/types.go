// pkg/config/types.go
package config

import "time"

// Config is the root configuration structure for the Chameleon application.
// It aggregates all other specific configuration structs.
type Config struct {
	Log         LogConfig         `description:"Logging configuration" koanf:"log"`
	Server      ServerConfig      `description:"Server configuration" koanf:"server"`
	Recon       ReconConfig       `description:"Reconnaissance configuration" koanf:"recon"`
	Exec        ExecConfig        `description:"Command dispatch configuration" koanf:"exec"`
	Engagements EngagementsConfig `description:"Engagement store configuration" koanf:"engagements"`
}

// LogConfig holds logging related configuration.
type LogConfig struct {
	Level  string `description:"Log level (debug, info, warn, error)" koanf:"level"`
	Format string `description:"Log format: json | text" koanf:"format"`
	File   string `description:"Log file path" koanf:"file"`
}

// ServerConfig holds configuration for the HTTP server runtime.
type ServerConfig struct {
	Addr         string        `description:"Server listen address" koanf:"addr"`
	Port         int           `description:"Server listen port" koanf:"port"`
	ReadTimeout  time.Duration `description:"HTTP read timeout" koanf:"read_timeout"`
	WriteTimeout time.Duration `description:"HTTP write timeout" koanf:"write_timeout"`
}

// ReconConfig holds scan acquisition and passive-intelligence settings.
type ReconConfig struct {
	// NmapPorts limits discovery to a port spec; empty uses nmap defaults.
	NmapPorts string `description:"Port specification for discovery scans" koanf:"nmap_ports"`

	// ScanTimeout bounds one discovery scan end to end.
	ScanTimeout time.Duration `description:"Wall-clock bound for one discovery scan" koanf:"scan_timeout"`

	// PingFirst probes the host before scanning.
	PingFirst bool `description:"Send an ICMP probe before scanning" koanf:"ping_first"`

	// ShodanAPIKey authenticates passive lookups. Sourced from the
	// CHAMELEON_SHODAN_API_KEY environment variable, never a literal.
	ShodanAPIKey string `description:"Shodan API key" koanf:"shodan_api_key"`
}

// ExecConfig holds command dispatch policy.
type ExecConfig struct {
	Timeout      time.Duration `description:"Per-command execution timeout" koanf:"timeout"`
	AllowedTools []string      `description:"Allow-listed tool names for dispatched commands" koanf:"allowed_tools"`
}

// EngagementsConfig holds engagement store settings.
type EngagementsConfig struct {
	WorkspaceDir string `description:"Workspace root directory for persisted records" koanf:"workspace_dir"`
	DefaultLimit int    `description:"Default engagement listing size" koanf:"default_limit"`
	MaxLimit     int    `description:"Maximum engagement listing size" koanf:"max_limit"`
}
