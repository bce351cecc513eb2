// Package telemetry emits structured events for the structural
// mutations the tree's recursion performs, for use by the CLI
// harness. The core package calls it from its insert and remove
// recursion through a Nop logger by default; callers wire in a real
// one from the outside with Tree.SetTelemetry.
package telemetry

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger with the handful of events the
// recursive split/merge/borrow driver cares about.
type Logger struct {
	log zerolog.Logger
}

// New builds a Logger writing to w in zerolog's console format. Pass
// os.Stdout for interactive use.
func New(w io.Writer, level zerolog.Level) *Logger {
	if w == nil {
		w = os.Stdout
	}
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return &Logger{log: zerolog.New(console).Level(level).With().Timestamp().Logger()}
}

// Nop returns a Logger that discards every event.
func Nop() *Logger {
	return &Logger{log: zerolog.Nop()}
}

func (l *Logger) Split(kind string, depth int, promoted string) {
	if l == nil {
		return
	}
	l.log.Debug().Str("kind", kind).Int("depth", depth).Str("promoted", promoted).Msg("node split")
}

func (l *Logger) Merge(kind string, depth int, intoLeft bool) {
	if l == nil {
		return
	}
	l.log.Debug().Str("kind", kind).Int("depth", depth).Bool("into_left", intoLeft).Msg("sibling merge")
}

func (l *Logger) Borrow(kind string, depth int, fromLeft bool) {
	if l == nil {
		return
	}
	l.log.Debug().Str("kind", kind).Int("depth", depth).Bool("from_left", fromLeft).Msg("sibling borrow")
}

func (l *Logger) RootGrow(height int) {
	if l == nil {
		return
	}
	l.log.Info().Int("height", height).Msg("root grown")
}

func (l *Logger) RootCollapse(height int) {
	if l == nil {
		return
	}
	l.log.Info().Int("height", height).Msg("root collapsed")
}
