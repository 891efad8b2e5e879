// Package instance keeps a single launcher running per session. The lock
// file records the holder's PID for diagnostics.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrRunning is returned by Acquire when another launcher holds the lock.
var ErrRunning = errors.New("another grimoire instance is running")

// HeldError wraps ErrRunning with the holder's PID when it is known.
type HeldError struct {
	Path string
	PID  int
}

func (e *HeldError) Error() string {
	if e.PID > 0 {
		return fmt.Sprintf("%s (PID %d), lock file: %s", ErrRunning, e.PID, e.Path)
	}
	return fmt.Sprintf("%s, lock file: %s", ErrRunning, e.Path)
}

func (e *HeldError) Unwrap() error {
	return ErrRunning
}

// Lock is an exclusive per-session lock file.
type Lock struct {
	path string
	file *os.File
}

// New returns a lock at path. Nothing is acquired until Acquire.
func New(path string) *Lock {
	return &Lock{path: path}
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Held reports whether this Lock currently owns the file.
func (l *Lock) Held() bool {
	return l.file != nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}
	return nil
}

func writePID(f *os.File) error {
	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate lock file: %w", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to seek lock file: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		return fmt.Errorf("failed to write PID to lock file: %w", err)
	}
	return f.Sync()
}

func readPID(f *os.File) int {
	if _, err := f.Seek(0, 0); err != nil {
		return 0
	}
	buf := make([]byte, 32)
	n, err := f.Read(buf)
	if err != nil || n == 0 {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(buf[:n])))
	if err != nil {
		return 0
	}
	return pid
}
