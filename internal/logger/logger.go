// Package logger writes diagnostics to stderr while --verbose is set. Output
// is silent otherwise so command output stays clean for scripts.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"
)

// Format selects how log lines are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat accepts "text" or "json" in any case. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown log format %q (want text or json)", s)
	}
}

// sink is replaced as a whole whenever a setting changes.
type sink struct {
	out     io.Writer
	format  Format
	verbose bool
	log     *charmlog.Logger
}

var current atomic.Pointer[sink]

func init() {
	current.Store(newSink(os.Stderr, FormatText, false))
}

func newSink(out io.Writer, format Format, verbose bool) *sink {
	formatter := charmlog.TextFormatter
	if format == FormatJSON {
		formatter = charmlog.JSONFormatter
	}
	return &sink{
		out:     out,
		format:  format,
		verbose: verbose,
		log: charmlog.NewWithOptions(out, charmlog.Options{
			Level:     charmlog.DebugLevel,
			Formatter: formatter,
		}),
	}
}

func update(fn func(s sink) sink) {
	for {
		old := current.Load()
		next := fn(*old)
		if current.CompareAndSwap(old, newSink(next.out, next.format, next.verbose)) {
			return
		}
	}
}

// SetVerbose turns logging on or off.
func SetVerbose(v bool) {
	update(func(s sink) sink { s.verbose = v; return s })
}

func IsVerbose() bool {
	return current.Load().verbose
}

// SetOutput redirects logs, mainly for tests.
func SetOutput(w io.Writer) {
	update(func(s sink) sink { s.out = w; return s })
}

// SetFormat switches between human readable and JSON lines.
func SetFormat(f Format) {
	update(func(s sink) sink { s.format = f; return s })
}

func active() *sink {
	if s := current.Load(); s.verbose {
		return s
	}
	return nil
}

func Debug(format string, args ...any) {
	if s := active(); s != nil {
		s.log.Debugf(format, args...)
	}
}

func Info(format string, args ...any) {
	if s := active(); s != nil {
		s.log.Infof(format, args...)
	}
}

func Warn(format string, args ...any) {
	if s := active(); s != nil {
		s.log.Warnf(format, args...)
	}
}

// Event logs msg with key/value pairs.
func Event(msg string, keyvals ...any) {
	if s := active(); s != nil {
		s.log.Info(msg, keyvals...)
	}
}

// Section marks the start of a pipeline stage. In JSON mode it is an
// ordinary record so every line stays parseable.
func Section(name string) {
	s := active()
	if s == nil {
		return
	}
	if s.format == FormatJSON {
		s.log.Info("section", "name", name)
		return
	}
	fmt.Fprintf(s.out, "\n=== %s ===\n", name)
}
