// Package logger provides leveled logging for toolbelt.
//
// Console output is prefixed with [HH:MM:SS] [LEVEL] and coloured when the
// destination is a terminal. The verbosity of a run is controlled by the
// configured log_level and raised by each -v flag.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level orders messages from most to least verbose.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var levels = [...]struct {
	name  string
	color *color.Color
}{
	LevelTrace: {"trace", color.New(color.FgHiBlack)},
	LevelDebug: {"debug", color.New(color.FgCyan)},
	LevelInfo:  {"info", color.New(color.FgBlue)},
	LevelWarn:  {"warn", color.New(color.FgYellow)},
	LevelError: {"error", color.New(color.FgRed)},
}

func (l Level) String() string {
	if l < LevelTrace || l > LevelError {
		return "info"
	}
	return levels[l].name
}

func (l Level) tag() string {
	return strings.ToUpper(l.String())
}

// ParseLevel looks up a level by name, ignoring case and surrounding space.
func ParseLevel(name string) (Level, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for l, lv := range levels {
		if lv.name == name {
			return Level(l), true
		}
	}
	return LevelInfo, false
}

// ValidLevel reports whether level names a known log level.
func ValidLevel(level string) bool {
	_, ok := ParseLevel(level)
	return ok
}

// LevelForVerbosity lowers base by one level per -v flag, stopping at trace.
// An unknown base counts as info.
func LevelForVerbosity(base string, verbose int) string {
	l, _ := ParseLevel(base)
	l -= Level(verbose)
	if l < LevelTrace {
		l = LevelTrace
	}
	return l.String()
}

// ConsoleLogger writes leveled messages to a writer. It is safe for
// concurrent use, and a nil writer discards everything.
type ConsoleLogger struct {
	mu     sync.Mutex
	w      io.Writer
	min    Level
	colour bool
}

// NewConsoleLogger returns a logger showing messages at logLevel and above.
// Unknown levels fall back to info. Colour is used only for os.Stdout and
// os.Stderr, and only while fatih/color considers them terminals.
func NewConsoleLogger(w io.Writer, logLevel string) *ConsoleLogger {
	lvl, _ := ParseLevel(logLevel)
	return &ConsoleLogger{
		w:      w,
		min:    lvl,
		colour: (w == os.Stdout || w == os.Stderr) && !color.NoColor,
	}
}

// Level returns the name of the minimum level shown.
func (cl *ConsoleLogger) Level() string {
	return cl.min.String()
}

func (cl *ConsoleLogger) Tracef(format string, args ...any) { cl.logf(LevelTrace, format, args) }
func (cl *ConsoleLogger) Debugf(format string, args ...any) { cl.logf(LevelDebug, format, args) }
func (cl *ConsoleLogger) Infof(format string, args ...any)  { cl.logf(LevelInfo, format, args) }
func (cl *ConsoleLogger) Warnf(format string, args ...any)  { cl.logf(LevelWarn, format, args) }
func (cl *ConsoleLogger) Errorf(format string, args ...any) { cl.logf(LevelError, format, args) }

func (cl *ConsoleLogger) logf(l Level, format string, args []any) {
	if cl == nil || cl.w == nil || l < cl.min {
		return
	}

	tag := l.tag()
	if cl.colour {
		tag = levels[l].color.Sprint(tag)
	}
	line := fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format("15:04:05"), tag, fmt.Sprintf(format, args...))

	cl.mu.Lock()
	defer cl.mu.Unlock()
	io.WriteString(cl.w, line)
}

// NoOpLogger discards every message.
type NoOpLogger struct{}

func (NoOpLogger) Tracef(string, ...any) {}
func (NoOpLogger) Debugf(string, ...any) {}
func (NoOpLogger) Infof(string, ...any)  {}
func (NoOpLogger) Warnf(string, ...any)  {}
func (NoOpLogger) Errorf(string, ...any) {}
