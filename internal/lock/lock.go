package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// HeldError is returned when another dashboard instance already owns the profile.
type HeldError struct {
	PID   int
	Path  string
	Since string
}

func (e *HeldError) Error() string {
	if e.Since != "" {
		return fmt.Sprintf("profile in use by PID %d since %s (%s)", e.PID, e.Since, e.Path)
	}
	return fmt.Sprintf("profile in use by PID %d (%s)", e.PID, e.Path)
}

// Lock is an exclusive advisory lock on a profile directory. Two dashboards
// sharing a profile would race on the persisted session tokens.
type Lock struct {
	file *os.File
	path string
}

// Acquire takes the profile lock or returns *HeldError.
func Acquire(profileDir string) (*Lock, error) {
	if err := os.MkdirAll(profileDir, 0700); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	path := filepath.Join(profileDir, "LOCK")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		data, _ := os.ReadFile(path)
		_ = f.Close()
		held := &HeldError{Path: path}
		held.PID, held.Since = parseOwner(string(data))
		return nil, held
	}

	owner := fmt.Sprintf("pid=%d\ntime=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if err := f.Truncate(0); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.WriteAt([]byte(owner), 0); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Lock{file: f, path: path}, nil
}

// Release drops the lock. Safe on a nil receiver and when called twice.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	_ = os.Remove(l.path)
	err := l.file.Close()
	l.file = nil
	return err
}

func parseOwner(content string) (pid int, since string) {
	for _, line := range strings.Split(content, "\n") {
		if v, ok := strings.CutPrefix(line, "pid="); ok {
			pid, _ = strconv.Atoi(v)
		}
		if v, ok := strings.CutPrefix(line, "time="); ok {
			since = v
		}
	}
	return pid, since
}
