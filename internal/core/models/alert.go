package models

import (
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityAlert   Severity = "alert"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

type Alert struct {
	ID        uuid.UUID `json:"id"`
	Signal    Signal    `json:"signal"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func NewAlert(signal Signal, severity Severity, message string, ts time.Time) *Alert {
	return &Alert{
		ID:        uuid.New(),
		Signal:    signal,
		Severity:  severity,
		Message:   message,
		Timestamp: ts,
	}
}

// Batch is the set of alerts collected within one loop iteration.
type Batch []Alert

func (b Batch) Empty() bool {
	return len(b) == 0
}

// Messages returns the alert texts in collection order.
func (b Batch) Messages() []string {
	out := make([]string, 0, len(b))
	for _, a := range b {
		if a.Message == "" {
			continue
		}
		out = append(out, a.Message)
	}
	return out
}
