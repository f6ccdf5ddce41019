// Package health serves the liveness endpoint outside the huma API.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/janisto/fistfuel/internal/storage"
)

// Response is the payload for the health endpoint.
type Response struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Storage string `json:"storage"`
}

const probeKey = "fist-fuel-health"

// Handler reports the service version and whether kv answers reads. A missing
// key counts as healthy; only an unavailable backend degrades the status.
func Handler(version string, kv storage.KV) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := Response{Status: "healthy", Version: version, Storage: "ok"}
		status := http.StatusOK
		if _, err := kv.Get(ctx, probeKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
			resp.Status = "degraded"
			resp.Storage = "unavailable"
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
