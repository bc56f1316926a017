package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestRunCheckReportsAuthLogFailures(t *testing.T) {
	dir := t.TempDir()
	authLog := filepath.Join(dir, "auth.log")
	require.NoError(t, os.WriteFile(authLog, []byte(
		"sshd: Authentication failed for root\nsshd: Authentication failed for admin\n"), 0o600))

	path := writeEnv(t, "THRESHOLD_CPU=100\nTHRESHOLD_MEMORY=100\nTHRESHOLD_DISK=100\n"+
		"THRESHOLD_SSH_ATTEMPTS=1\nAUTH_LOG_PATH="+authLog+"\nCPU_SAMPLE_WINDOW=1ms\n")

	var out bytes.Buffer
	require.NoError(t, RunCheck(path, false, &out))

	assert.Contains(t, out.String(), "**System Alert - ")
	assert.Contains(t, out.String(), "2 failed login attempts")
}

func TestRunCheckRejectsBadConfig(t *testing.T) {
	path := writeEnv(t, "CHECK_INTERVAL=0s\n")

	var out bytes.Buffer
	err := RunCheck(path, false, &out)
	assert.ErrorContains(t, err, "CHECK_INTERVAL")
	assert.Empty(t, out.String())
}

func TestRunReport(t *testing.T) {
	path := writeEnv(t, "CPU_SAMPLE_WINDOW=1ms\nAUTH_LOG_PATH=/nonexistent\n")

	var out bytes.Buffer
	require.NoError(t, RunReport(path, &out))
	assert.Contains(t, out.String(), "**📊 System Status**")
	assert.Contains(t, out.String(), "Threshold: 80.0%")
}
