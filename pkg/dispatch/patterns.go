package dispatch

import "strings"

// patternRule summarizes what a batch of commands was probing for. This is a
// static substring table, not a learning system.
type patternRule struct {
	substring string
	key       string
	summary   string
}

var patternRules = []patternRule{
	{"wordpress", "wordpress_pattern", "WordPress vulnerabilities probed"},
	{"wpscan", "wordpress_pattern", "WordPress vulnerabilities probed"},
	{"ssh", "ssh_pattern", "SSH brute force attempted"},
	{"http", "http_pattern", "HTTP reconnaissance performed"},
	{"curl", "http_pattern", "HTTP reconnaissance performed"},
}

// SummarizePatterns tags an executed batch with the attack patterns it
// touched, keyed for the operator's engagement notes.
func SummarizePatterns(commands []string) map[string]string {
	summary := make(map[string]string)
	for _, cmd := range commands {
		lowered := strings.ToLower(cmd)
		for _, rule := range patternRules {
			if strings.Contains(lowered, rule.substring) {
				summary[rule.key] = rule.summary
			}
		}
	}
	return summary
}
