package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds storage backend configuration.
type Config struct {
	// WorkspaceRoot is the root directory for file-based storage.
	WorkspaceRoot string `yaml:"workspace_root"`

	// DefaultListLimit is applied when a listing caller supplies no limit.
	DefaultListLimit int `yaml:"default_list_limit"`

	// MaxListLimit caps listing sizes regardless of the caller's limit.
	MaxListLimit int `yaml:"max_list_limit"`
}

// Validate checks and normalizes the configuration, expanding ~ and making
// the workspace root absolute.
func (c *Config) Validate() error {
	if c.WorkspaceRoot == "" {
		return NewInvalidInputError("workspace_root", "workspace root directory is required")
	}

	if strings.HasPrefix(c.WorkspaceRoot, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		c.WorkspaceRoot = filepath.Join(home, c.WorkspaceRoot[2:])
	}

	absPath, err := filepath.Abs(c.WorkspaceRoot)
	if err != nil {
		return NewInvalidInputError("workspace_root", fmt.Sprintf("invalid path: %v", err))
	}
	c.WorkspaceRoot = absPath

	if c.DefaultListLimit <= 0 {
		c.DefaultListLimit = DefaultListLimit
	}
	if c.MaxListLimit <= 0 {
		c.MaxListLimit = DefaultMaxListLimit
	}
	if c.DefaultListLimit > c.MaxListLimit {
		c.DefaultListLimit = c.MaxListLimit
	}
	return nil
}
