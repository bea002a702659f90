// Package recon holds the normalized reconnaissance data model: discovered
// services, the aggregate tech stack for one target, and the pluggable
// acquisition sources that produce them.
package recon

import (
	"encoding/json"
	"regexp"
	"strconv"
)

// Service is one discovered network service on a target.
//
// All fields default to the empty string, never absence, so downstream
// pattern matching does not need nil checks. A service without a port is not
// addressable and is dropped by the normalizer.
type Service struct {
	Name     string `json:"name"`
	Port     string `json:"port"`
	Protocol string `json:"protocol"`
	Product  string `json:"product,omitempty"`
	Version  string `json:"version,omitempty"`
}

// Key returns the deterministic node identifier for this service, "name:port".
func (s Service) Key() string {
	return s.Name + ":" + s.Port
}

// PortNumber returns the numeric port, or -1 when the port is not numeric.
func (s Service) PortNumber() int {
	n, err := strconv.Atoi(s.Port)
	if err != nil {
		return -1
	}
	return n
}

// TechStack is the aggregate reconnaissance result for one target.
//
// Intelligence carries the raw passive-lookup payload as-is; the engine does
// not interpret its schema. Errors records acquisition steps that degraded
// (failed scan, failed intelligence lookup) so the operator can see what data
// the analysis is missing.
type TechStack struct {
	Target       string          `json:"target"`
	Services     []Service       `json:"services"`
	Intelligence json.RawMessage `json:"intelligence,omitempty"`
	Errors       []string        `json:"errors,omitempty"`
}

// targetPattern is the safe-identifier gate applied before a target string is
// allowed anywhere near command substitution. Security invariant, not
// cosmetic: substituted commands are eventually passed to a process launcher.
var targetPattern = regexp.MustCompile(`^[\w.-]+$`)

// ValidTarget reports whether target matches the safe-identifier pattern
// (letters, digits, dot, hyphen, underscore).
func ValidTarget(target string) bool {
	return target != "" && targetPattern.MatchString(target)
}
