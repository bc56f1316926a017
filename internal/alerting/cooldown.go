package alerting

import (
	"sync"
	"time"

	"github.com/theblitlabs/parity-watchdog/internal/core/models"
)

// CooldownGate suppresses repeat alerts for a signal until more than the
// cooldown has passed since the last fired alert.
type CooldownGate struct {
	mu        sync.Mutex
	cooldown  time.Duration
	lastFired map[models.Signal]time.Time
}

func NewCooldownGate(cooldown time.Duration) *CooldownGate {
	return &CooldownGate{
		cooldown:  cooldown,
		lastFired: make(map[models.Signal]time.Time),
	}
}

func (g *CooldownGate) Cooldown() time.Duration {
	return g.cooldown
}

// ShouldFire reports whether an alert for signal may fire at now. It does
// not record anything; pair it with RecordFired, or use TryFire.
func (g *CooldownGate) ShouldFire(signal models.Signal, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.allowed(signal, now)
}

// RecordFired marks signal as fired at now.
func (g *CooldownGate) RecordFired(signal models.Signal, now time.Time) {
	g.mu.Lock()
	g.lastFired[signal] = now
	g.mu.Unlock()
}

// TryFire checks and records in one step. It returns true if the alert may
// fire, in which case now becomes the new last-fired time.
func (g *CooldownGate) TryFire(signal models.Signal, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.allowed(signal, now) {
		return false
	}
	g.lastFired[signal] = now
	return true
}

func (g *CooldownGate) LastFired(signal models.Signal) (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.lastFired[signal]
	return t, ok
}

// caller holds g.mu
func (g *CooldownGate) allowed(signal models.Signal, now time.Time) bool {
	last, ok := g.lastFired[signal]
	if !ok {
		return true
	}
	return now.Sub(last) > g.cooldown
}
