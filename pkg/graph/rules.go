package graph

import (
	"strings"

	"github.com/chameleon-sec/chameleon/pkg/recon"
)

// CategoryRule maps services to one vulnerability category. The rule table is
// the single place new categories are added: a rule is data, not a new branch
// in match logic.
type CategoryRule struct {
	// ID is the category node identifier, e.g. "web_vulns".
	ID string

	// Name is the human-readable category label.
	Name string

	// Weight is the relevance carried by every edge this rule creates.
	Weight float64

	// Match selects the services that connect to this category.
	Match func(recon.Service) bool
}

// nameContains builds a case-insensitive substring predicate over the
// service name.
func nameContains(substrings ...string) func(recon.Service) bool {
	return func(s recon.Service) bool {
		name := strings.ToLower(s.Name)
		for _, sub := range substrings {
			if strings.Contains(name, sub) {
				return true
			}
		}
		return false
	}
}

// DefaultRules returns the built-in category table.
func DefaultRules() []CategoryRule {
	return []CategoryRule{
		{
			ID:     "web_vulns",
			Name:   "Web Application Vulns",
			Weight: 0.7,
			Match:  nameContains("http"),
		},
		{
			ID:     "ssh_weak_creds",
			Name:   "SSH Weak Credentials",
			Weight: 0.6,
			Match:  nameContains("ssh"),
		},
		{
			ID:     "ftp_cleartext",
			Name:   "FTP Cleartext Access",
			Weight: 0.5,
			Match:  nameContains("ftp"),
		},
		{
			ID:     "db_exposure",
			Name:   "Exposed Database Service",
			Weight: 0.65,
			Match:  nameContains("mysql", "postgres", "mongodb", "redis"),
		},
	}
}
