package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/acarl005/stripansi"

	"github.com/ethereum-optimism/infra/op-testreport/types"
)

var (
	// ErrNoHandle is returned when logging through a handle that was never opened
	ErrNoHandle = errors.New("no log handle bound to this test")
	// ErrHandleClosed is returned when logging through a released handle
	ErrHandleClosed = errors.New("log handle is closed")
)

// PerTestLogger hands out one dedicated log file per test under a fixed root.
// It holds no per-test state: every test owns the LogHandle it opened.
type PerTestLogger struct {
	root      string
	stripANSI bool
}

// Option configures a PerTestLogger
type Option func(*PerTestLogger)

// WithStripANSI removes ANSI escape sequences from messages before they are written
func WithStripANSI(enabled bool) Option {
	return func(l *PerTestLogger) {
		l.stripANSI = enabled
	}
}

// NewPerTestLogger creates a logger writing test logs below root
func NewPerTestLogger(root string, opts ...Option) (*PerTestLogger, error) {
	if root == "" {
		return nil, fmt.Errorf("log root cannot be empty")
	}
	l := &PerTestLogger{root: root}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Root returns the directory test logs are written to
func (l *PerTestLogger) Root() string {
	return l.root
}

// PathFor returns the log file path for a test identity
func (l *PerTestLogger) PathFor(id types.TestIdentity) string {
	return filepath.Join(l.root, filepath.FromSlash(id.LogFileName()))
}

// Open creates (or truncates) the log file for the given test and returns the
// handle the test must hold for its duration and Close when it ends.
func (l *PerTestLogger) Open(id types.TestIdentity) (*LogHandle, error) {
	if id.Method == "" {
		return nil, fmt.Errorf("test identity %q has no method name", id.String())
	}

	path := l.PathFor(id)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file %s: %w", path, err)
	}

	return &LogHandle{
		id:        id,
		path:      path,
		file:      file,
		stripANSI: l.stripANSI,
	}, nil
}

// LogHandle is an append-only log stream for a single test
type LogHandle struct {
	id        types.TestIdentity
	path      string
	file      *os.File
	stripANSI bool

	mu     sync.Mutex
	closed bool
}

// Log writes the message followed by a newline and flushes it to disk
// before returning, so the line survives a crash of the process.
func (h *LogHandle) Log(message string) error {
	if h == nil {
		return ErrNoHandle
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return fmt.Errorf("%w: %s", ErrHandleClosed, h.path)
	}
	if h.stripANSI {
		message = stripansi.Strip(message)
	}
	if _, err := h.file.WriteString(message + "\n"); err != nil {
		return fmt.Errorf("failed to write to log file %s: %w", h.path, err)
	}
	if err := h.file.Sync(); err != nil {
		return fmt.Errorf("failed to flush log file %s: %w", h.path, err)
	}
	return nil
}

// Logf formats according to a format specifier and logs the result
func (h *LogHandle) Logf(format string, args ...any) error {
	return h.Log(fmt.Sprintf(format, args...))
}

// Close releases the underlying file. Closing twice is a no-op.
func (h *LogHandle) Close() error {
	if h == nil {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	return h.file.Close()
}

// Path returns the log file path
func (h *LogHandle) Path() string {
	return h.path
}

// Identity returns the test the handle belongs to
func (h *LogHandle) Identity() types.TestIdentity {
	return h.id
}
