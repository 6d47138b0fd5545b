package cli

import (
	"io"
	"log/slog"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// newLogger creates a logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level charmlog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// installLogger makes a charm logger the slog default. Packages below the
// CLI log through slog only.
func installLogger(w io.Writer, verbose bool) *charmlog.Logger {
	level := charmlog.InfoLevel
	if verbose {
		level = charmlog.DebugLevel
	}
	l := newLogger(w, level)
	slog.SetDefault(slog.New(l))
	return l
}

// progress logs completion of an operation with its elapsed duration.
type progress struct {
	start time.Time
}

func newProgress() *progress {
	return &progress{start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Generated 42 declarations (12ms)"
func (p *progress) done(msg string, args ...any) {
	slog.Info(msg, append(args, "elapsed", time.Since(p.start).Round(time.Millisecond))...)
}
