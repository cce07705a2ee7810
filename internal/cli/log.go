// Package cli implements the forcegraph command-line interface.
//
// # Commands
//
//   - render: simulate headless and write PNG, SVG or draw-op JSON
//   - view: interactive diagram in the terminal
//   - serve: live views over HTTP
//   - export: positions as JSON/YAML, Graphviz DOT or Graphviz SVG
//   - cache, config, completion: housekeeping
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs animation loop and cache events. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Pipeline complete (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
// This ensures commands always have a valid logger even if context setup fails.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Debug Hooks
// =============================================================================

// frameLogEvery is how often, in frames, the debug hook logs frame stats.
const frameLogEvery = 60

// debugHooks logs loop and cache events at debug level.
type debugHooks struct {
	observability.NoopFrameHooks
	observability.NoopCacheHooks
	logger *log.Logger
}

func (h debugHooks) OnFrame(_ context.Context, s observability.FrameStats) {
	if s.Tick%frameLogEvery != 0 {
		return
	}
	h.logger.Debug("frame", "tick", s.Tick, "nodes", s.Nodes, "events", s.Events,
		"step", s.Step.Round(time.Microsecond), "draw", s.Draw.Round(time.Microsecond), "energy", s.Energy)
}

func (h debugHooks) OnLoopStart(_ context.Context, fps int) {
	h.logger.Debug("loop started", "fps", fps)
}

func (h debugHooks) OnLoopStop(_ context.Context, frames int, err error) {
	h.logger.Debug("loop stopped", "frames", frames, "err", err)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

// EnableDebugHooks registers observability hooks that log through the
// CLI's logger. main calls it under --verbose.
func (c *CLI) EnableDebugHooks() {
	h := debugHooks{logger: c.Logger}
	observability.SetFrameHooks(h)
	observability.SetCacheHooks(h)
}
