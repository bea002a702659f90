package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/chameleon-sec/chameleon/pkg/analysis"
	"github.com/chameleon-sec/chameleon/pkg/playbook"
	"github.com/chameleon-sec/chameleon/pkg/server/api"
)

// AnalyzeHandler handles POST /analyze
//
// Body: {"target": "example.com", "scan_depth": "normal"}
//
// Runs one full analysis (scan acquisition, attack graph, playbook matching)
// and persists the engagement. Responds with the ranked recommendation
// array; an empty array when no playbook matched.
//
// Returns 400 with kind InvalidTarget when the target fails the
// safe-identifier validation, before any side effect.
func AnalyzeHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteJSONError(w, http.StatusBadRequest, api.KindInvalidRequest, "malformed JSON body")
			return
		}
		if err := ValidateAnalyzeRequest(req); err != nil {
			api.WriteJSONError(w, http.StatusBadRequest, api.KindInvalidRequest, err.Error())
			return
		}
		// An empty target fails the safe-identifier gate like any other
		// malformed target, so it carries the InvalidTarget kind.
		if strings.TrimSpace(req.Target) == "" {
			api.WriteError(w, r, &analysis.InvalidTargetError{Target: req.Target})
			return
		}

		ctx := r.Context()
		if deps.Config.HandlerTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, deps.Config.HandlerTimeout)
			defer cancel()
		}

		report, err := deps.Analyzer.Run(ctx, analysis.Params{
			Target:    req.Target,
			ScanDepth: req.ScanDepth,
		})
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		recommendations := report.Recommendations
		if recommendations == nil {
			recommendations = []playbook.Recommendation{}
		}

		log.Info().
			Str("component", "api").
			Str("target", req.Target).
			Int("recommendations", len(recommendations)).
			Msg("Analysis request served")
		api.WriteJSON(w, http.StatusOK, recommendations)
	}
}
