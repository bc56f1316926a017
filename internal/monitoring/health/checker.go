package health

import (
	"sync"
	"time"

	"github.com/theblitlabs/parity-watchdog/internal/core/models"
)

// Status represents the health status of a signal
type Status string

const (
	// StatusOK indicates the signal is within its threshold
	StatusOK Status = "OK"
	// StatusWarning indicates the signal exceeded its threshold
	StatusWarning Status = "WARNING"
	// StatusError indicates the signal could not be sampled
	StatusError Status = "ERROR"
	// StatusUnknown indicates the signal has not been checked yet
	StatusUnknown Status = "UNKNOWN"
)

// SignalHealth is the last observed state of one signal.
type SignalHealth struct {
	Name        models.Signal `json:"name"`
	Status      Status        `json:"status"`
	Value       float64       `json:"value"`
	Threshold   float64       `json:"threshold"`
	Message     string        `json:"message,omitempty"`
	LastChecked time.Time     `json:"last_checked"`
}

// Registry keeps the latest health of every signal. It is written by the
// monitor loop and read by the status API.
type Registry struct {
	mu      sync.RWMutex
	signals map[models.Signal]*SignalHealth
}

func NewRegistry() *Registry {
	return &Registry{
		signals: make(map[models.Signal]*SignalHealth),
	}
}

// Update replaces the stored state for h.Name.
func (r *Registry) Update(h SignalHealth) {
	if r == nil {
		return
	}
	if h.LastChecked.IsZero() {
		h.LastChecked = time.Now()
	}

	r.mu.Lock()
	r.signals[h.Name] = &h
	r.mu.Unlock()
}

// GetAllHealth returns a copy of every signal's health, including unchecked
// signals as UNKNOWN.
func (r *Registry) GetAllHealth() map[models.Signal]*SignalHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[models.Signal]*SignalHealth, len(models.Signals))
	for _, s := range models.Signals {
		result[s] = &SignalHealth{Name: s, Status: StatusUnknown}
	}
	for k, v := range r.signals {
		signalCopy := *v
		result[k] = &signalCopy
	}

	return result
}

// GetSignalHealth returns the health status of a specific signal
func (r *Registry) GetSignalHealth(name models.Signal) *SignalHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if h, exists := r.signals[name]; exists {
		signalCopy := *h
		return &signalCopy
	}

	return nil
}

// Overall folds every signal into one status; ERROR beats WARNING beats OK.
func (r *Registry) Overall() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.signals) == 0 {
		return StatusUnknown
	}

	overall := StatusOK
	for _, h := range r.signals {
		switch h.Status {
		case StatusError:
			return StatusError
		case StatusWarning:
			overall = StatusWarning
		}
	}
	return overall
}
