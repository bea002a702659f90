package v1

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/chameleon-sec/chameleon/pkg/dispatch"
	"github.com/chameleon-sec/chameleon/pkg/server/api"
)

// ExecuteResponse is the body of a successful POST /execute/{playbook_id}.
// Output carries the per-command results serialized as JSON so operators can
// archive it verbatim in engagement notes.
type ExecuteResponse struct {
	Success         bool              `json:"success"`
	Output          string            `json:"output"`
	LearnedPatterns map[string]string `json:"learned_patterns"`
}

// ExecuteHandler handles POST /execute/{playbook_id}
//
// Body: ["nmap -sV target", ...]
//
// Verifies the playbook exists, then runs the command batch through the
// dispatcher. A disallowed command rejects the whole batch with kind
// CommandNotAllowed before anything executes.
func ExecuteHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playbookID := r.PathValue("playbook_id")
		if playbookID == "" {
			api.WriteJSONError(w, http.StatusBadRequest, api.KindInvalidRequest, "playbook_id is required")
			return
		}

		var commands []string
		if err := json.NewDecoder(r.Body).Decode(&commands); err != nil {
			api.WriteJSONError(w, http.StatusBadRequest, api.KindInvalidRequest, "body must be a JSON array of command strings")
			return
		}

		ctx := r.Context()
		if _, err := deps.Storage.Playbooks().Get(ctx, playbookID); err != nil {
			api.WriteError(w, r, err)
			return
		}

		batch, err := deps.Dispatcher.Run(ctx, commands)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		output, err := json.Marshal(batch.Results)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		log.Info().
			Str("component", "api").
			Str("playbook_id", playbookID).
			Int("commands", len(commands)).
			Bool("success", batch.Success).
			Msg("Execution request served")
		api.WriteJSON(w, http.StatusOK, ExecuteResponse{
			Success:         batch.Success,
			Output:          string(output),
			LearnedPatterns: dispatch.SummarizePatterns(commands),
		})
	}
}
