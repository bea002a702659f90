// Package httpx wires the HTTP router and cross-cutting middleware.
package httpx

import (
	"net/http"

	"github.com/chameleon-sec/chameleon/pkg/server/api"
	v1 "github.com/chameleon-sec/chameleon/pkg/server/api/v1"
)

// NewRouter creates and configures the main HTTP router.
//
// The router uses Go 1.22+ enhanced pattern matching for cleaner routes.
// Health endpoints are always mounted for liveness/readiness checks.
func NewRouter(deps *api.Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("GET /healthz", v1.HealthzHandler())
	mux.HandleFunc("GET /readyz", v1.ReadyzHandler(deps))

	// Triage API
	mux.HandleFunc("POST /analyze", v1.AnalyzeHandler(deps))
	mux.HandleFunc("POST /execute/{playbook_id}", v1.ExecuteHandler(deps))
	mux.HandleFunc("GET /engagements", v1.EngagementsHandler(deps))

	return mux
}
