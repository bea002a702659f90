package playbook

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var seedCatalog []byte

type catalogFile struct {
	Playbooks []Playbook `yaml:"playbooks"`
}

// SeedCatalog parses the embedded playbook catalog. The storage backend
// inserts it exactly once, guarded by an existence check at initialization.
func SeedCatalog() ([]Playbook, error) {
	return ParseCatalog(seedCatalog)
}

// ParseCatalog decodes a YAML playbook catalog and validates every entry.
func ParseCatalog(data []byte) ([]Playbook, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse playbook catalog: %w", err)
	}
	for _, pb := range file.Playbooks {
		if err := pb.Validate(); err != nil {
			return nil, fmt.Errorf("invalid playbook catalog: %w", err)
		}
	}
	return file.Playbooks, nil
}
