// Package logger provides leveled logging for DataVerser.
// Debug, info and warning messages are printed only in verbose mode; errors
// are always printed. Output is plain text on terminals and JSON otherwise.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Format selects how log lines are rendered.
type Format string

const (
	// FormatText renders "[LEVEL] message key=value" lines.
	FormatText Format = "text"

	// FormatJSON renders one JSON object per line.
	FormatJSON Format = "json"
)

// sectionField marks entries written by Section.
const sectionField = "section"

var (
	mu      sync.RWMutex
	verbose bool
	base    = newBase()
)

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&textFormatter{})
	l.SetLevel(logrus.ErrorLevel)
	return l
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		base.SetLevel(logrus.DebugLevel)
	} else {
		base.SetLevel(logrus.ErrorLevel)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base.SetOutput(w)
}

// SetFormat switches between text and JSON rendering.
func SetFormat(f Format) {
	mu.Lock()
	defer mu.Unlock()
	if f == FormatJSON {
		base.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	base.SetFormatter(&textFormatter{})
}

// DetectFormat returns FormatText when w is a terminal and FormatJSON
// otherwise.
func DetectFormat(w io.Writer) Format {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return FormatText
	}
	return FormatJSON
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	base.Debugf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	base.WithField(sectionField, name).Info(name)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	base.Infof(format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	base.Warnf(format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	base.Errorf(format, args...)
}

// WithFields returns an entry carrying structured fields.
func WithFields(fields map[string]any) *logrus.Entry {
	return base.WithFields(logrus.Fields(fields))
}

// textFormatter renders entries in the "[LEVEL] message" style.
type textFormatter struct{}

func (f *textFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	if name, ok := e.Data[sectionField]; ok {
		fmt.Fprintf(&b, "\n=== %v ===\n", name)
		return b.Bytes(), nil
	}

	fmt.Fprintf(&b, "[%s] %s", levelName(e.Level), e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func levelName(l logrus.Level) string {
	switch l {
	case logrus.DebugLevel, logrus.TraceLevel:
		return "DEBUG"
	case logrus.InfoLevel:
		return "INFO"
	case logrus.WarnLevel:
		return "WARN"
	default:
		return "ERROR"
	}
}
