package handlers

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/theblitlabs/parity-watchdog/internal/core/models"
	"github.com/theblitlabs/parity-watchdog/internal/monitoring/health"
	"github.com/theblitlabs/parity-watchdog/pkg/logger"
)

// StateFunc reports the monitor loop state, e.g. "running".
type StateFunc func() string

type StatusHandler struct {
	registry *health.Registry
	state    StateFunc
}

func NewStatusHandler(registry *health.Registry, state StateFunc) *StatusHandler {
	if state == nil {
		state = func() string { return "unknown" }
	}
	return &StatusHandler{registry: registry, state: state}
}

type HealthResponse struct {
	Status  health.Status `json:"status"`
	Monitor string        `json:"monitor"`
}

// Health returns 200 unless the monitor loop is not running.
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	state := h.state()
	code := http.StatusOK
	if state != "running" {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:  h.registry.Overall(),
		Monitor: state,
	})
}

func (h *StatusHandler) ListSignals(w http.ResponseWriter, r *http.Request) {
	all := h.registry.GetAllHealth()

	out := make([]*health.SignalHealth, 0, len(all))
	for _, s := range all {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	writeJSON(w, http.StatusOK, out)
}

func (h *StatusHandler) GetSignal(w http.ResponseWriter, r *http.Request) {
	signal := models.Signal(mux.Vars(r)["signal"])
	if !signal.Valid() {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown signal"})
		return
	}

	s := h.registry.GetSignalHealth(signal)
	if s == nil {
		s = &health.SignalHealth{Name: signal, Status: health.StatusUnknown}
	}
	writeJSON(w, http.StatusOK, s)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log := logger.WithComponent("api")
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
