package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// Pinger is implemented by anything whose connectivity /readyz should check
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of /livez and /readyz
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency
type HealthChecks struct {
	Store string `json:"store"`
}

// LivezHandler always answers 200 while the process is running
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusOK)
		render.JSON(w, r, HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler answers 503 while the document store is unreachable
func ReadyzHandler(startTime time.Time, version string, store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &HealthChecks{Store: "ok"}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if store == nil {
			checks.Store = "error: not configured"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		} else if err := store.Ping(r.Context()); err != nil {
			checks.Store = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		render.Status(r, statusCode)
		render.JSON(w, r, HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
