package models

// Signal identifies one monitored dimension.
type Signal string

const (
	SignalCPU         Signal = "cpu"
	SignalMemory      Signal = "memory"
	SignalDisk        Signal = "disk"
	SignalSSHAttempts Signal = "ssh_attempts"
)

// Signals lists every signal in the order the monitor checks them.
var Signals = []Signal{SignalCPU, SignalMemory, SignalDisk, SignalSSHAttempts}

func (s Signal) String() string {
	return string(s)
}

func (s Signal) Valid() bool {
	switch s {
	case SignalCPU, SignalMemory, SignalDisk, SignalSSHAttempts:
		return true
	}
	return false
}

// Thresholds holds the configured limit for each signal. A value is
// exceeded only when the sample is strictly greater than the limit.
type Thresholds struct {
	CPU         float64 `json:"cpu"`
	Memory      float64 `json:"memory"`
	Disk        float64 `json:"disk"`
	SSHAttempts int     `json:"ssh_attempts"`
}

// Limit returns the numeric limit configured for s.
func (t Thresholds) Limit(s Signal) float64 {
	switch s {
	case SignalCPU:
		return t.CPU
	case SignalMemory:
		return t.Memory
	case SignalDisk:
		return t.Disk
	case SignalSSHAttempts:
		return float64(t.SSHAttempts)
	}
	return 0
}

// Exceeded reports whether value is strictly above the limit for s.
func (t Thresholds) Exceeded(s Signal, value float64) bool {
	return value > t.Limit(s)
}
