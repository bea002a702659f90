// Package engagement defines the durable record of one analysis run and the
// recorder that persists it.
package engagement

import (
	"time"

	"github.com/google/uuid"

	"github.com/chameleon-sec/chameleon/pkg/graph"
	"github.com/chameleon-sec/chameleon/pkg/playbook"
	"github.com/chameleon-sec/chameleon/pkg/recon"
)

// IDPrefix marks engagement identifiers.
const IDPrefix = "eng_"

// Engagement is the immutable record of one analysis: the normalized input,
// the derived attack graph, and the ranked recommendations. Serializing and
// reloading a record reconstructs all three structurally.
type Engagement struct {
	ID        string                    `json:"id"`
	Target    string                    `json:"target"`
	Timestamp time.Time                 `json:"timestamp"`
	TechStack recon.TechStack           `json:"tech_stack"`
	Graph     *graph.Graph              `json:"attack_graph"`
	Results   []playbook.Recommendation `json:"results"`
}

// NewID generates a collision-resistant engagement identifier. Random UUIDs
// replace the second-granularity timestamp scheme that collided under
// concurrent analyses.
func NewID() string {
	return IDPrefix + uuid.NewString()
}
