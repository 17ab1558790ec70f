package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LatestLink is the name of the symlink pointing at the newest run log.
const LatestLink = "latest.log"

// FileLogger keeps the log of a single script run. Leveled messages and,
// through Write, the raw output of the command end up in the same file.
// It is safe for concurrent use.
type FileLogger struct {
	mu   sync.Mutex
	f    *os.File
	path string
	min  Level
}

// NewFileLogger opens run-<name>-YYYYMMDD-HHMMSS.log in dir, creating dir
// when needed, and repoints dir/latest.log at it. Characters of name that
// do not belong in a file name become "_".
func NewFileLogger(dir, name, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	started := time.Now()
	base := fmt.Sprintf("run-%s-%s.log", safeName(name), started.Format("20060102-150405"))
	path := filepath.Join(dir, base)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	if err := relink(filepath.Join(dir, LatestLink), base); err != nil {
		f.Close()
		return nil, err
	}

	lvl, _ := ParseLevel(logLevel)
	fl := &FileLogger{f: f, path: path, min: lvl}
	fmt.Fprintf(fl, "=== toolbelt run: %s ===\nStarted at: %s\n\n", name, started.Format(time.RFC3339))
	return fl, nil
}

func relink(link, target string) error {
	if _, err := os.Lstat(link); err == nil {
		if err := os.Remove(link); err != nil {
			return fmt.Errorf("replace %s: %w", filepath.Base(link), err)
		}
	}
	if err := os.Symlink(target, link); err != nil {
		return fmt.Errorf("link %s: %w", filepath.Base(link), err)
	}
	return nil
}

// Path returns the run log file.
func (fl *FileLogger) Path() string {
	return fl.path
}

// Write appends p to the log unchanged. After Close it fails with
// os.ErrClosed.
func (fl *FileLogger) Write(p []byte) (int, error) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.f == nil {
		return 0, os.ErrClosed
	}
	return fl.f.Write(p)
}

func (fl *FileLogger) Tracef(format string, args ...any) { fl.logf(LevelTrace, format, args) }
func (fl *FileLogger) Debugf(format string, args ...any) { fl.logf(LevelDebug, format, args) }
func (fl *FileLogger) Infof(format string, args ...any)  { fl.logf(LevelInfo, format, args) }
func (fl *FileLogger) Warnf(format string, args ...any)  { fl.logf(LevelWarn, format, args) }
func (fl *FileLogger) Errorf(format string, args ...any) { fl.logf(LevelError, format, args) }

func (fl *FileLogger) logf(l Level, format string, args []any) {
	if l < fl.min {
		return
	}
	line := fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format("15:04:05"), l.tag(), fmt.Sprintf(format, args...))
	io.WriteString(fl, line)
}

// Close syncs and closes the file. Closing twice is a no-op.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.f == nil {
		return nil
	}
	f := fl.f
	fl.f = nil
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync run log: %w", err)
	}
	return f.Close()
}

func safeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}
