package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theblitlabs/parity-watchdog/internal/core/models"
)

func TestRegistryUpdateAndGet(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, StatusUnknown, r.Overall())
	assert.Nil(t, r.GetSignalHealth(models.SignalCPU))

	r.Update(SignalHealth{Name: models.SignalCPU, Status: StatusOK, Value: 3.2, Threshold: 80})

	h := r.GetSignalHealth(models.SignalCPU)
	require.NotNil(t, h)
	assert.Equal(t, StatusOK, h.Status)
	assert.False(t, h.LastChecked.IsZero())

	h.Status = StatusError
	assert.Equal(t, StatusOK, r.GetSignalHealth(models.SignalCPU).Status, "returned value must be a copy")
}

func TestRegistryGetAllHealthFillsUnknown(t *testing.T) {
	r := NewRegistry()
	r.Update(SignalHealth{Name: models.SignalDisk, Status: StatusWarning, LastChecked: time.Unix(10, 0)})

	all := r.GetAllHealth()
	require.Len(t, all, len(models.Signals))
	assert.Equal(t, StatusWarning, all[models.SignalDisk].Status)
	assert.Equal(t, StatusUnknown, all[models.SignalMemory].Status)
}

func TestRegistryOverall(t *testing.T) {
	r := NewRegistry()
	r.Update(SignalHealth{Name: models.SignalCPU, Status: StatusOK})
	assert.Equal(t, StatusOK, r.Overall())

	r.Update(SignalHealth{Name: models.SignalMemory, Status: StatusWarning})
	assert.Equal(t, StatusWarning, r.Overall())

	r.Update(SignalHealth{Name: models.SignalSSHAttempts, Status: StatusError})
	assert.Equal(t, StatusError, r.Overall())
}

func TestNilRegistryUpdateIsNoop(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() { r.Update(SignalHealth{Name: models.SignalCPU}) })
}
