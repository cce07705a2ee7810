// Package loop runs the animation scheduler for a View.
//
// A Loop is the only goroutine that touches its View. Each frame it drains
// buffered input (the safe point), advances the simulation one tick, and
// draws to its surface. Work from other goroutines enters through [Loop.Do]
// and [Loop.Post] and runs at the next safe point, never in the middle of a
// tick.
//
// There is no pause and no convergence check: a loop runs until its context
// is cancelled or [Loop.Close] is called, and either one tears the View down.
package loop

import (
	"context"
	"sync"
	"time"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/observability"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/view"
)

// Defaults.
const (
	DefaultFPS       = 60
	DefaultQueueSize = 256
)

// Loop drives one View.
type Loop struct {
	v      *view.View
	s      render.Surface
	fps    int
	queue  chan func(*view.View)
	done   chan struct{}
	once   sync.Once
	frames int
}

// Option configures a Loop.
type Option func(*Loop)

// WithFPS sets the frame rate used by Run.
func WithFPS(fps int) Option {
	return func(l *Loop) {
		if fps > 0 {
			l.fps = fps
		}
	}
}

// WithQueueSize bounds the number of buffered events between frames.
func WithQueueSize(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.queue = make(chan func(*view.View), n)
		}
	}
}

// New returns a loop for v drawing to s. s may be nil for a loop that only
// simulates; frames are then drawn on demand through Do.
func New(v *view.View, s render.Surface, opts ...Option) *Loop {
	l := &Loop{
		v:     v,
		s:     s,
		fps:   DefaultFPS,
		queue: make(chan func(*view.View), DefaultQueueSize),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FPS returns the configured frame rate.
func (l *Loop) FPS() int { return l.fps }

// Frames returns the number of frames run.
func (l *Loop) Frames() int { return l.frames }

// Surface returns the loop's surface.
func (l *Loop) Surface() render.Surface { return l.s }

// Done is closed when the loop has been torn down.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Frame runs one frame on the calling goroutine. Hosts with their own frame
// clock call Frame directly instead of Run.
func (l *Loop) Frame(ctx context.Context) observability.FrameStats {
	if l.closed() {
		return observability.FrameStats{}
	}
	stats := observability.FrameStats{Events: l.drain()}

	start := time.Now()
	l.v.Step()
	stats.Step = time.Since(start)

	if l.s != nil {
		start = time.Now()
		l.v.Draw(l.s)
		stats.Draw = time.Since(start)
	}

	l.frames++
	stats.Tick = l.v.Engine().Tick()
	stats.Nodes = l.v.Graph().Len()
	stats.Energy = l.v.Engine().Energy()
	observability.Frame().OnFrame(ctx, stats)
	return stats
}

// Run drives frames at the configured rate until ctx is cancelled, then
// tears the loop down. It returns ctx.Err(), or nil if Close ended it.
func (l *Loop) Run(ctx context.Context) (err error) {
	hooks := observability.Frame()
	hooks.OnLoopStart(ctx, l.fps)
	defer func() {
		l.Close()
		hooks.OnLoopStop(ctx, l.frames, err)
	}()

	ticker := time.NewTicker(time.Second / time.Duration(l.fps))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case <-ticker.C:
			l.Frame(ctx)
		}
	}
}

// Do runs fn on the loop goroutine at the next safe point and waits for it.
func (l *Loop) Do(ctx context.Context, fn func(*view.View)) error {
	finished := make(chan struct{})
	select {
	case l.queue <- func(v *view.View) { fn(v); close(finished) }:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return errClosed()
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return errClosed()
	}
}

// Post queues fn without waiting. It reports false if the queue is full or
// the loop is closed.
func (l *Loop) Post(fn func(*view.View)) bool {
	if l.closed() {
		return false
	}
	select {
	case l.queue <- fn:
		return true
	default:
		return false
	}
}

// Close tears down the loop and its View. It is safe to call more than once.
func (l *Loop) Close() {
	l.once.Do(func() {
		close(l.done)
		l.v.Close()
	})
}

func (l *Loop) closed() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// drain runs every queued event and returns how many ran.
func (l *Loop) drain() int {
	n := 0
	for {
		select {
		case fn := <-l.queue:
			fn(l.v)
			n++
		default:
			return n
		}
	}
}

func errClosed() error {
	return errs.New(errs.ErrCodeClosed, "view loop closed")
}
