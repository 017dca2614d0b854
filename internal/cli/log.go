// Package cli implements the scenegraph command-line interface.
//
// Commands load scene files (JSON or TOML), compute global transforms,
// render node-link diagrams through the artifact cache, browse a scene
// interactively, and serve the HTTP API. The CLI is built using cobra and
// logs through charmbracelet/log.
//
// # Commands
//
//   - compute: print the global transform of every node
//   - validate: check a scene file and report its shape
//   - render: draw the scene as SVG, PNG or DOT
//   - demo: build and print the four-node reference scene
//   - browse: explore a scene in the terminal
//   - serve: run the HTTP API
//   - cache: manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Configuration
//
// An optional TOML file at $XDG_CONFIG_HOME/scenegraph/config.toml (or the
// path given by --config) supplies server and cache settings. Flags override
// file values.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a timestamped logger ("14:32:01.45") writing to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a scene operation took, e.g.
// "Computed 4 global transforms (1ms)".
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx. Commands read it back with
// loggerFromContext and hand it to the engine via scene.WithLogger.
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
