package authlog

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `Oct 19 10:00:01 host sshd[100]: Accepted publickey for deploy from 10.0.0.2 port 5122 ssh2
Oct 19 10:00:02 host sshd[101]: Connection closed by authenticating user root 203.0.113.9 port 4410 [preauth]
Oct 19 10:00:03 host CRON[102]: pam_unix(cron:session): session opened for user root
Oct 19 10:00:04 host sshd[103]: error: PAM: Authentication failed for admin from 203.0.113.10
`

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "auth.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestScanCountsMatchingLines(t *testing.T) {
	s := NewScanner(writeLog(t, sampleLog))

	res, err := s.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Count)
	require.Len(t, res.RecentLines, 2)
	assert.Contains(t, res.RecentLines[0], "Connection closed by authenticating user root")
	assert.Contains(t, res.RecentLines[1], "Authentication failed for admin")
}

func TestScanKeepsLastThreeInOrder(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 5; i++ {
		b.WriteString("sshd: Authentication failed attempt ")
		b.WriteString(string(rune('0' + i)))
		b.WriteString("\n")
	}

	res, err := NewScanner(writeLog(t, b.String())).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, res.Count)
	assert.Equal(t, []string{
		"sshd: Authentication failed attempt 3",
		"sshd: Authentication failed attempt 4",
		"sshd: Authentication failed attempt 5",
	}, res.RecentLines)
}

func TestScanRereadsWholeFile(t *testing.T) {
	path := writeLog(t, sampleLog)
	s := NewScanner(path)

	first, err := s.Scan(context.Background())
	require.NoError(t, err)
	second, err := s.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Count, second.Count)
}

func TestScanMissingFileReturnsScanError(t *testing.T) {
	s := NewScanner(filepath.Join(t.TempDir(), "nope.log"))

	res, err := s.Scan(context.Background())
	require.Error(t, err)
	assert.Zero(t, res.Count)

	var scanErr *ScanError
	require.True(t, errors.As(err, &scanErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "nope.log")
}

func TestScanCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(writeLog(t, sampleLog)).Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("i/o error") }
func (failingReader) Close() error { return nil }

type stubOpener struct {
	rc  io.ReadCloser
	err error
}

func (o stubOpener) Open(string) (io.ReadCloser, error) { return o.rc, o.err }

func TestScanReadFailure(t *testing.T) {
	s := NewScannerWithOpener("/var/log/auth.log", stubOpener{rc: failingReader{}})

	_, err := s.Scan(context.Background())
	var scanErr *ScanError
	require.ErrorAs(t, err, &scanErr)
	assert.Equal(t, "/var/log/auth.log", scanErr.Path)
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("x Authentication failed y"))
	assert.True(t, Matches("Connection closed by authenticating user bob"))
	assert.False(t, Matches("Failed password for root"))
	assert.False(t, Matches(""))
}

func TestNewScannerDefaultsPath(t *testing.T) {
	assert.Equal(t, DefaultPath, NewScanner("").Path())
}
