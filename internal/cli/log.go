// Package cli implements the lyphgraph command-line interface.
//
// This package provides commands for assembling lyph models, converting
// spreadsheets into model documents, exporting debug drawings, serving the
// HTTP API and managing the result cache. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - assemble: Expand a model into its resource graph
//   - validate: Check a model against the JSON schema
//   - convert: Turn spreadsheets into a model document
//   - export: Draw the node/link graph as DOT or SVG
//   - inspect: Browse the diagnostics of an assembly
//   - serve: Run the HTTP API
//   - cache: Manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "15:04:05.00" timestamps writing to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command. Assembly phases are logged at debug level as
// they finish; done logs the total.
type progress struct {
	logger *log.Logger
	start  time.Time
	phases int
	slow   string        // slowest phase
	max    time.Duration // its duration
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// phase is an assemble.Options.OnPhase callback.
func (p *progress) phase(name string, d time.Duration) {
	p.phases++
	if d > p.max {
		p.slow, p.max = name, d
	}
	p.logger.Debug("phase", "name", name, "took", d.Round(time.Microsecond))
}

// done logs msg with the elapsed time, e.g. "Processed heart.json (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
	if p.phases > 0 {
		p.logger.Debug("slowest phase", "name", p.slow, "took", p.max.Round(time.Microsecond), "phases", p.phases)
	}
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
