package http

import (
	"net/http"
	"time"

	"github.com/tallyworks/compliance/internal/compliance/store"
	"github.com/tallyworks/compliance/pkg/httpx"
	"github.com/tallyworks/compliance/pkg/tincrypt"
)

// ReadyzHandler is the readiness probe. It checks database connectivity
// and that the TIN cipher is configured; without the cipher the service
// cannot accept W-9 submissions or reveal TINs.
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	cipher *tincrypt.Cipher,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &HealthChecks{
			Database: "ok",
			Cipher:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if cipher == nil {
			checks.Cipher = "error: encryption key not configured"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
