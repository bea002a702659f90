// Package playbook holds the stored attack-procedure catalog and the matcher
// that scores playbooks against a discovered tech stack.
package playbook

import (
	"fmt"
	"strings"
)

// Placeholders recognized in command templates. {target}, {port} and
// {plugin} are substituted from the tech stack; {user} and {wordlist} have no
// automatic source and stay literal, signaling required manual input.
const (
	PlaceholderTarget   = "{target}"
	PlaceholderPort     = "{port}"
	PlaceholderPlugin   = "{plugin}"
	PlaceholderUser     = "{user}"
	PlaceholderWordlist = "{wordlist}"
)

// Playbook is a reusable attack procedure, seeded once at startup and
// read-only thereafter.
type Playbook struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	TechPattern   string   `json:"tech_pattern" yaml:"tech_pattern"`
	Commands      []string `json:"commands" yaml:"commands"`
	Effectiveness float64  `json:"effectiveness" yaml:"effectiveness"`
}

// Validate rejects playbooks the matcher cannot safely use. An empty
// tech_pattern would match every service and is excluded by construction.
func (p Playbook) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("playbook id is required")
	}
	if strings.TrimSpace(p.TechPattern) == "" {
		return fmt.Errorf("playbook %s: tech_pattern is required", p.ID)
	}
	if p.Effectiveness < 0 || p.Effectiveness > 1 {
		return fmt.Errorf("playbook %s: effectiveness %v outside [0,1]", p.ID, p.Effectiveness)
	}
	return nil
}

// Recommendation is one scored, instantiated playbook for a specific tech
// stack. Produced fresh per analysis and never mutated.
type Recommendation struct {
	PlaybookID string   `json:"playbook_id"`
	Name       string   `json:"name"`
	Confidence float64  `json:"confidence"`
	Commands   []string `json:"commands"`
	Artifact   string   `json:"visualization,omitempty"`
}
