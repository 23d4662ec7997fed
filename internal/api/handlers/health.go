package handlers

import (
	"net/http"

	"example.com/vrp-routing-service/internal/platform/logging"
)

// Health reports liveness. It never touches the routing pipeline.
func Health(log *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, log, http.StatusOK, map[string]string{"status": "ok"})
	}
}
