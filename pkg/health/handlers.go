package health

import (
	"encoding/json"
	"net/http"
)

// Handler returns an HTTP handler reporting the aggregated facility health.
// Returns 200 OK when all checks pass and 503 Service Unavailable when any
// component is degraded. The response body details each component.
func (h *Health) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := h.Check(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if result.Status == "healthy" {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		// If encoding fails an empty response is sent
		_ = json.NewEncoder(w).Encode(result)
	}
}

// LivenessHandler returns an HTTP handler that always reports the process alive.
// It performs no dependency checks.
func (h *Health) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
	}
}
