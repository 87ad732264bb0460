// Package logx is the firmware's tagged line logger. Lines look like
//
//	[power] warn: radio peer still connected after 2000ms
//
// and go to Output unless a logger was built with its own writer. On MCU
// builds the board bootstrap points Output at the console serial port.
package logx

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Output is the default sink for loggers built with New.
var Output io.Writer = os.Stdout

var mu sync.Mutex

// SetOutput swaps Output under the write lock and returns the old sink.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	old := Output
	Output = w
	return old
}

type Level uint8

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

type Logger struct {
	tag string
	w   io.Writer // nil => Output
}

// New returns a logger writing to Output.
func New(tag string) *Logger { return &Logger{tag: tag} }

// NewTo returns a logger bound to w. Tests pass a bytes.Buffer.
func NewTo(w io.Writer, tag string) *Logger { return &Logger{tag: tag, w: w} }

// With returns a logger sharing the sink with a sub-tag ("power/wake").
func (l *Logger) With(sub string) *Logger {
	return &Logger{tag: l.tag + "/" + sub, w: l.w}
}

func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *Logger) logf(lvl Level, format string, args ...any) {
	if l == nil {
		return
	}
	mu.Lock()
	w := l.w
	if w == nil {
		w = Output
	}
	fmt.Fprintf(w, "[%s] %s: %s\n", l.tag, lvl, fmt.Sprintf(format, args...))
	mu.Unlock()
}
