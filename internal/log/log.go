// Package log is the matcher's package-level logging helper, the analogue
// of the teacher's github.com/wayneeseguin/graft/log package that DEBUG()/
// TRACE() forward to throughout graft's operator and evaluator code. It
// prints ansi-colorized lines (github.com/starkandwayne/goutils/ansi) when
// standard output is a terminal, and plain text otherwise.
package log

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	"github.com/starkandwayne/goutils/ansi"
)

// Level controls which of DEBUG/TRACE/WARN actually print.
type Level int32

const (
	LevelWarn Level = iota
	LevelDebug
	LevelTrace
)

var level atomic.Int32

func init() {
	ansi.Color(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
	if os.Getenv("DEBUG") != "" {
		level.Store(int32(LevelDebug))
	}
	if os.Getenv("TRACE") != "" {
		level.Store(int32(LevelTrace))
	}
}

// SetLevel sets the active log level; returns the previous level so tests
// can restore it.
func SetLevel(l Level) Level {
	return Level(level.Swap(int32(l)))
}

func current() Level { return Level(level.Load()) }

// DEBUG prints a debug-level line when the level is Debug or above.
func DEBUG(format string, args ...interface{}) {
	if current() >= LevelDebug {
		fmt.Fprintln(os.Stdout, ansi.Sprintf("@c{DEBUG}> "+format, args...))
	}
}

// TRACE prints a trace-level line when the level is Trace.
func TRACE(format string, args ...interface{}) {
	if current() >= LevelTrace {
		fmt.Fprintln(os.Stdout, ansi.Sprintf("@m{TRACE}> "+format, args...))
	}
}

// WARN always prints, to stderr, colorized in yellow.
func WARN(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, ansi.Sprintf("@Y{warning:} "+format, args...))
}

// INFO always prints, to stdout, uncolorized beyond any embedded markup.
// This is the channel for spec §6's observable "match ..." and per-pass
// summary lines.
func INFO(format string, args ...interface{}) {
	fmt.Fprintln(os.Stdout, ansi.Sprintf(format, args...))
}
