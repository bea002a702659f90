package v1

import (
	"net/http"

	"github.com/chameleon-sec/chameleon/pkg/engagement"
	"github.com/chameleon-sec/chameleon/pkg/server/api"
)

// EngagementsHandler handles GET /engagements?limit=N
//
// Returns up to N engagement records, most recent first. The limit defaults
// to the configured listing size and is capped at the configured maximum.
func EngagementsHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := ParseEngagementsLimit(r, deps.Config.DefaultEngagementLimit, deps.Config.MaxEngagementLimit)
		if err != nil {
			api.WriteJSONError(w, http.StatusBadRequest, api.KindInvalidRequest, err.Error())
			return
		}

		records, err := deps.Storage.Engagements().List(r.Context(), limit)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}
		if records == nil {
			records = []engagement.Engagement{}
		}
		api.WriteJSON(w, http.StatusOK, records)
	}
}
