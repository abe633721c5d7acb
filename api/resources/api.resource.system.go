// FilePath: api/resources/api.resource.system.go
package resources

import (
	"net/http"

	"github.com/itsatony/headcount/internal/errors"
	"github.com/itsatony/headcount/internal/monitoring"
	nuts "github.com/vaudience/go-nuts"
)

// SystemHandlers serve health, metrics, manual refresh and the live stream.
type SystemHandlers struct {
	refresher  Refresher
	live       http.Handler
	monitoring *monitoring.Service
}

func (h *SystemHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": nuts.GetVersion(),
	})
}

// @Summary Event counters since start-up
// @Tags system
// @Produce json
// @Success 200 {object} monitoring.Snapshot
// @Router /metrics [get]
func (h *SystemHandlers) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.monitoring == nil {
		respondWithError(w, errors.NewUnavailableError("monitoring disabled", nil).WithRequestID(nuts.NID("req", 12)))
		return
	}
	respondWithJSON(w, http.StatusOK, h.monitoring.Snapshot())
}

// @Summary Run one refresh tick now
// @Description Skipped when a tick is already running
// @Tags system
// @Produce json
// @Router /refresh [post]
func (h *SystemHandlers) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	if h.refresher == nil {
		respondWithError(w, errors.NewUnavailableError("refresh is not configured", nil).WithRequestID(requestID))
		return
	}

	report := h.refresher.Tick(r.Context())
	code := http.StatusOK
	if report.Skipped {
		code = http.StatusAccepted
	}
	respondWithJSON(w, code, report)
}

// Live upgrades to a websocket streaming ingested observations.
func (h *SystemHandlers) Live(w http.ResponseWriter, r *http.Request) {
	if h.live == nil {
		respondWithError(w, errors.NewUnavailableError("live stream disabled", nil).WithRequestID(nuts.NID("req", 12)))
		return
	}
	h.live.ServeHTTP(w, r)
}
