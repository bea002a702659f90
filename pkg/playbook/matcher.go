package playbook

import (
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/chameleon-sec/chameleon/pkg/graph"
	"github.com/chameleon-sec/chameleon/pkg/recon"
	"github.com/chameleon-sec/chameleon/pkg/render"
)

// DefaultDiscount is the base trust discount applied to static playbook
// effectiveness scores.
const DefaultDiscount = 0.9

// Matcher scores the read-only playbook catalog against a tech stack and
// instantiates command templates for the matches.
type Matcher struct {
	discount float64
	renderer render.Renderer
}

// NewMatcher returns a matcher with the default trust discount and no
// renderer attached.
func NewMatcher() *Matcher {
	return &Matcher{discount: DefaultDiscount}
}

// WithDiscount overrides the trust discount. Values outside (0,1] fall back
// to the default so confidence stays within [0,1].
func (m *Matcher) WithDiscount(discount float64) *Matcher {
	if discount > 0 && discount <= 1 {
		m.discount = discount
	}
	return m
}

// WithRenderer attaches the optional graph renderer whose artifact is
// embedded in each recommendation.
func (m *Matcher) WithRenderer(r render.Renderer) *Matcher {
	m.renderer = r
	return m
}

// Recommend scores every playbook against the stack and returns instantiated
// recommendations sorted by confidence descending. Playbooks whose pattern
// matches no service are omitted entirely, not scored at zero. Ties keep
// catalog order (stable sort).
//
// The graph is consumed here only for the optional rendering artifact; the
// confidence score is static in this scope.
func (m *Matcher) Recommend(stack recon.TechStack, g *graph.Graph, books []Playbook) []Recommendation {
	artifact := m.renderArtifact(g)

	recommendations := make([]Recommendation, 0, len(books))
	for _, pb := range books {
		pattern := strings.ToLower(strings.TrimSpace(pb.TechPattern))
		if pattern == "" {
			// An empty pattern would match everything; refuse it.
			log.Warn().Str("component", "matcher").Str("playbook", pb.ID).
				Msg("Skipping playbook with empty tech_pattern")
			continue
		}

		matched := matchingServices(stack.Services, pattern)
		if len(matched) == 0 {
			continue
		}

		recommendations = append(recommendations, Recommendation{
			PlaybookID: pb.ID,
			Name:       pb.Name,
			Confidence: round2(pb.Effectiveness * m.discount),
			Commands:   instantiate(pb.Commands, stack.Target, substitutionService(matched)),
			Artifact:   artifact,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Confidence > recommendations[j].Confidence
	})
	return recommendations
}

// matchingServices returns the services whose name or product contains the
// lower-cased pattern.
func matchingServices(services []recon.Service, pattern string) []recon.Service {
	var out []recon.Service
	for _, svc := range services {
		if strings.Contains(strings.ToLower(svc.Name), pattern) ||
			strings.Contains(strings.ToLower(svc.Product), pattern) {
			out = append(out, svc)
		}
	}
	return out
}

// substitutionService picks the service whose fields feed {port} and
// {plugin}. When several services match the pattern the one with the lowest
// numeric port wins; non-numeric ports sort last. Deterministic by
// construction, unlike iteration-order-dependent selection.
func substitutionService(matched []recon.Service) recon.Service {
	best := matched[0]
	for _, svc := range matched[1:] {
		if portRank(svc) < portRank(best) {
			best = svc
		}
	}
	return best
}

func portRank(svc recon.Service) int {
	if n := svc.PortNumber(); n >= 0 {
		return n
	}
	return math.MaxInt
}

// instantiate substitutes template placeholders. {target} is substituted
// unconditionally; {port} and {plugin} come from the matched service when it
// supplies the field. Placeholders without a value stay literal so the
// operator can see the command needs manual input.
func instantiate(templates []string, target string, svc recon.Service) []string {
	commands := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		cmd := strings.ReplaceAll(tmpl, PlaceholderTarget, target)
		if svc.Port != "" {
			cmd = strings.ReplaceAll(cmd, PlaceholderPort, svc.Port)
		}
		if svc.Product != "" {
			cmd = strings.ReplaceAll(cmd, PlaceholderPlugin, svc.Product)
		}
		commands = append(commands, cmd)
	}
	return commands
}

// renderArtifact asks the optional renderer for a graph artifact. Rendering
// failures degrade to an empty artifact and never fail the recommendation.
func (m *Matcher) renderArtifact(g *graph.Graph) string {
	if m.renderer == nil || g == nil {
		return ""
	}
	artifact, err := m.renderer.Render(g)
	if err != nil {
		log.Warn().Str("component", "matcher").Err(err).
			Msg("Graph rendering failed, omitting artifact")
		return ""
	}
	return artifact
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
