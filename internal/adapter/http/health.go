package http

import (
	"context"
	"net/http"
	"time"
)

// Check reports the health of one dependency. A nil error means healthy.
type Check func(ctx context.Context) error

type healthStatus struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Services map[string]string `json:"services,omitempty"`
}

// Health returns a handler that runs every check. Any failing check turns
// the response into 503 with status "degraded".
func Health(version string, checks map[string]Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := healthStatus{Status: "ok", Version: version}
		code := http.StatusOK
		if len(checks) > 0 {
			status.Services = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status.Services[name] = err.Error()
				status.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			status.Services[name] = "ok"
		}
		writeJSON(w, code, status)
	}
}
