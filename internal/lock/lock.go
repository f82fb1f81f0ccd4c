package lock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/iot-workbench/iotwb/internal/logger"
)

const (
	// LockFileName 放在项目根目录下
	LockFileName = ".iotwb.lock"
	// StaleLockTimeout is the age after which a lock is considered abandoned
	StaleLockTimeout = 5 * time.Minute
)

// BusyError reports a project locked by another iotwb process.
type BusyError struct {
	Path string
	PID  int
}

func (e *BusyError) Error() string {
	if e.PID > 0 {
		return fmt.Sprintf("project is locked by process %d (%s); retry later or pass --no-lock", e.PID, e.Path)
	}
	return fmt.Sprintf("project is locked (%s); retry later or pass --no-lock", e.Path)
}

// Lock guards writes into one project folder.
type Lock struct {
	lockPath string
	acquired bool
	disabled bool
}

// NewLock creates a lock for the project at projectDir.
func NewLock(projectDir string) *Lock {
	return &Lock{lockPath: filepath.Join(projectDir, LockFileName)}
}

// Disabled returns a lock that always succeeds and never touches disk.
func Disabled() *Lock {
	return &Lock{disabled: true}
}

// Path 返回锁文件路径
func (l *Lock) Path() string { return l.lockPath }

// TryAcquire creates the lock file exclusively. It returns false when a
// fresh lock held by someone else exists; a stale one is replaced.
func (l *Lock) TryAcquire() (bool, error) {
	if l.disabled {
		l.acquired = true
		return true, nil
	}

	for attempt := 0; attempt < 2; attempt++ {
		err := l.create()
		if err == nil {
			l.acquired = true
			return true, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return false, fmt.Errorf("failed to create lock file: %w", err)
		}

		info, statErr := os.Stat(l.lockPath)
		if statErr != nil {
			// 其他进程刚刚释放，重试
			continue
		}
		if time.Since(info.ModTime()) <= StaleLockTimeout {
			return false, nil
		}
		log := logger.Get()
		log.Warn().Str("path", l.lockPath).Time("modified", info.ModTime()).Msg("removing stale lock")
		if err := os.Remove(l.lockPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("failed to remove stale lock: %w", err)
		}
	}
	return false, nil
}

func (l *Lock) create() error {
	f, err := os.OpenFile(l.lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		f.Close()
		os.Remove(l.lockPath)
		return err
	}
	return f.Close()
}

// Acquire is TryAcquire with a held lock reported as *BusyError.
func (l *Lock) Acquire() error {
	ok, err := l.TryAcquire()
	if err != nil {
		return err
	}
	if !ok {
		pid, _ := l.GetPID()
		return &BusyError{Path: l.lockPath, PID: pid}
	}
	return nil
}

// ForceAcquire replaces whatever lock is present.
func (l *Lock) ForceAcquire() error {
	if l.disabled {
		l.acquired = true
		return nil
	}

	if err := os.Remove(l.lockPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	if err := l.create(); err != nil {
		return fmt.Errorf("failed to create lock file: %w", err)
	}
	l.acquired = true
	return nil
}

// Release removes the lock file if this Lock holds it.
func (l *Lock) Release() error {
	if !l.acquired {
		return nil
	}
	l.acquired = false
	if l.disabled {
		return nil
	}

	if err := os.Remove(l.lockPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// GetPID returns the PID stored in the lock file
func (l *Lock) GetPID() (int, error) {
	data, err := os.ReadFile(l.lockPath)
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in lock file: %w", err)
	}
	return pid, nil
}
