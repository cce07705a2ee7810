package server

import (
	"context"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/loop"
	"github.com/matzehuels/forcegraph/pkg/render/svg"
	"github.com/matzehuels/forcegraph/pkg/view"
)

// maxEvents bounds the undrained event backlog per view.
const maxEvents = 1024

// Event is a node callback observed by a live view.
type Event struct {
	Type string `json:"type"` // "click" or "hover"
	Node string `json:"node,omitempty"`
	Tick int    `json:"tick"`
}

// session is one live view. Everything except id, cancel and done is
// touched only on the loop goroutine.
type session struct {
	id     string
	view   *view.View
	loop   *loop.Loop
	svg    *svg.Surface
	events []Event

	cancel context.CancelFunc
	done   chan struct{}
}

// record appends a callback event. It runs inside the view's callbacks,
// which run on the loop goroutine.
func (sess *session) record(kind string, n *graph.Node) {
	ev := Event{Type: kind, Tick: sess.view.Engine().Tick()}
	if n != nil {
		ev.Node = n.ID
	}
	if len(sess.events) >= maxEvents {
		sess.events = sess.events[1:]
	}
	sess.events = append(sess.events, ev)
}

// drain returns and clears the backlog. Loop goroutine only.
func (sess *session) drain() []Event {
	out := sess.events
	sess.events = nil
	if out == nil {
		out = []Event{}
	}
	return out
}

// start runs the loop until ctx is cancelled or the loop is closed.
func (sess *session) start(ctx context.Context) {
	ctx, sess.cancel = context.WithCancel(ctx)
	go func() {
		defer close(sess.done)
		_ = sess.loop.Run(ctx)
	}()
}

// stop tears the view down and waits for its loop to exit.
func (sess *session) stop() {
	sess.cancel()
	<-sess.done
}
