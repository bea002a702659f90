package v1

import (
	"net/http"

	"github.com/chameleon-sec/chameleon/pkg/server/api"
)

// HealthzHandler handles GET /healthz. Liveness only: the process is up.
func HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyzHandler handles GET /readyz. Ready means storage is initialized and
// the catalog is seeded.
func ReadyzHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Ready == nil || !deps.Ready.Load() {
			api.WriteJSONError(w, http.StatusServiceUnavailable, api.KindInternal, "not ready")
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
