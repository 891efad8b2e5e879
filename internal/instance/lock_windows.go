//go:build windows

package instance

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

const windowsStillActive = 259

// Acquire takes the lock by creating the lock file exclusively. A file
// left behind by a dead process is removed and the create retried once.
func (l *Lock) Acquire() error {
	if l.file != nil {
		return nil
	}
	if err := ensureDir(l.path); err != nil {
		return err
	}

	for attempt := 0; ; attempt++ {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
		if err == nil {
			if err := writePID(f); err != nil {
				f.Close()
				_ = os.Remove(l.path)
				return err
			}
			l.file = f
			return nil
		}
		if !os.IsExist(err) {
			return fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
		}

		pid := heldPID(l.path)
		if attempt == 0 && pid > 0 && !isProcessAlive(pid) {
			if os.Remove(l.path) == nil {
				continue
			}
		}
		return &HeldError{Path: l.path, PID: pid}
	}
}

// Release closes and removes the lock file.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close lock file: %w", err)
	}
	l.file = nil

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

func heldPID(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()
	return readPID(f)
}

func isProcessAlive(pid int) bool {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(h)

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return false
	}
	return code == windowsStillActive
}
