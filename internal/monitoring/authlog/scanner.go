package authlog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/theblitlabs/parity-watchdog/internal/core/models"
	"github.com/theblitlabs/parity-watchdog/internal/core/ports"
	"github.com/theblitlabs/parity-watchdog/pkg/logger"
)

const (
	DefaultPath = "/var/log/auth.log"

	// number of trailing matches kept for the alert body
	recentLimit = 3

	// auth.log lines are short, but journald forwarders occasionally emit long ones
	maxLineSize = 1024 * 1024
)

// Patterns are the substrings that mark a failed login attempt.
var Patterns = []string{
	"Authentication failed",
	"Connection closed by authenticating user",
}

// FileOpener abstracts file access for testability
type FileOpener interface {
	Open(path string) (io.ReadCloser, error)
}

type osOpener struct{}

func (osOpener) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// ScanError reports that the log could not be read. It is distinct from a
// zero count so callers can surface it.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("read auth log: %v", e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Scanner counts failed login attempts by reading the whole log on every
// call. There is no offset tracking.
type Scanner struct {
	path   string
	opener FileOpener
}

func NewScanner(path string) *Scanner {
	return NewScannerWithOpener(path, osOpener{})
}

func NewScannerWithOpener(path string, opener FileOpener) *Scanner {
	if path == "" {
		path = DefaultPath
	}
	if opener == nil {
		opener = osOpener{}
	}
	return &Scanner{path: path, opener: opener}
}

func (s *Scanner) Path() string {
	return s.path
}

// Scan returns the number of matching lines and the last few of them in
// file order.
func (s *Scanner) Scan(ctx context.Context) (models.ScanResult, error) {
	if err := ctx.Err(); err != nil {
		return models.ScanResult{}, &ScanError{Path: s.path, Err: err}
	}

	f, err := s.opener.Open(s.path)
	if err != nil {
		return models.ScanResult{}, &ScanError{Path: s.path, Err: err}
	}
	defer f.Close()

	var (
		count  int
		recent = make([]string, 0, recentLimit)
	)

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for lineNo := 0; sc.Scan(); lineNo++ {
		if lineNo%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return models.ScanResult{}, &ScanError{Path: s.path, Err: err}
			}
		}

		line := sc.Text()
		if !Matches(line) {
			continue
		}

		count++
		if len(recent) == recentLimit {
			recent = append(recent[:0], recent[1:]...)
		}
		recent = append(recent, line)
	}
	if err := sc.Err(); err != nil {
		return models.ScanResult{}, &ScanError{Path: s.path, Err: err}
	}

	log := logger.WithComponent("authlog")
	log.Debug().Str("path", s.path).Int("matches", count).Msg("Auth log scanned")

	return models.ScanResult{Count: count, RecentLines: recent}, nil
}

// Matches reports whether line records a failed login attempt.
func Matches(line string) bool {
	for _, p := range Patterns {
		if strings.Contains(line, p) {
			return true
		}
	}
	return false
}

var _ ports.LogScanner = (*Scanner)(nil)
