package alerting

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/theblitlabs/parity-watchdog/internal/core/models"
)

func TestCooldownGate(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)

	t.Run("never fired signal passes", func(t *testing.T) {
		g := NewCooldownGate(3 * time.Second)
		assert.True(t, g.ShouldFire(models.SignalCPU, t0))
		_, ok := g.LastFired(models.SignalCPU)
		assert.False(t, ok, "ShouldFire must not record")
	})

	t.Run("window is strictly greater than cooldown", func(t *testing.T) {
		g := NewCooldownGate(3 * time.Second)

		assert.True(t, g.TryFire(models.SignalCPU, t0))
		assert.False(t, g.TryFire(models.SignalCPU, t0.Add(time.Second)))
		assert.False(t, g.TryFire(models.SignalCPU, t0.Add(3*time.Second)))
		assert.True(t, g.TryFire(models.SignalCPU, t0.Add(3*time.Second+time.Nanosecond)))

		last, ok := g.LastFired(models.SignalCPU)
		assert.True(t, ok)
		assert.Equal(t, t0.Add(3*time.Second+time.Nanosecond), last)
	})

	t.Run("measured from last fired, not last evaluated", func(t *testing.T) {
		g := NewCooldownGate(10 * time.Second)
		assert.True(t, g.TryFire(models.SignalDisk, t0))
		for i := 1; i <= 10; i++ {
			assert.False(t, g.TryFire(models.SignalDisk, t0.Add(time.Duration(i)*time.Second)))
		}
		assert.True(t, g.TryFire(models.SignalDisk, t0.Add(11*time.Second)))
	})

	t.Run("signals are independent", func(t *testing.T) {
		g := NewCooldownGate(time.Minute)
		assert.True(t, g.TryFire(models.SignalCPU, t0))
		assert.True(t, g.TryFire(models.SignalMemory, t0))
		assert.False(t, g.ShouldFire(models.SignalCPU, t0.Add(time.Second)))
		assert.True(t, g.ShouldFire(models.SignalSSHAttempts, t0.Add(time.Second)))
	})

	t.Run("check then record", func(t *testing.T) {
		g := NewCooldownGate(time.Minute)
		assert.True(t, g.ShouldFire(models.SignalCPU, t0))
		g.RecordFired(models.SignalCPU, t0)
		assert.False(t, g.ShouldFire(models.SignalCPU, t0.Add(time.Second)))
	})
}

func TestCooldownGateTryFireIsAtomic(t *testing.T) {
	g := NewCooldownGate(time.Minute)
	now := time.Now()

	var fired int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryFire(models.SignalCPU, now) {
				atomic.AddInt32(&fired, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), fired)
}
