package render

import (
	"encoding/json"
	"image/color"
	"io"

	"github.com/matzehuels/forcegraph/pkg/viewport"
)

// Op kinds recorded by Recorder.
const (
	OpBegin     = "begin"
	OpTransform = "transform"
	OpReset     = "reset"
	OpLine      = "line"
	OpCircle    = "circle"
	OpText      = "text"
)

// Op is one recorded Surface call. Only the fields meaningful for Kind are
// set.
type Op struct {
	Kind   string  `json:"op"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	X2     float64 `json:"x2,omitempty"`
	Y2     float64 `json:"y2,omitempty"`
	R      float64 `json:"r,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
	Text   string  `json:"text,omitempty"`
	Paint  string  `json:"paint,omitempty"`

	// World reports whether the op was issued under a viewport transform.
	World bool `json:"world,omitempty"`
}

// Recorder is a Surface that records calls instead of drawing.
type Recorder struct {
	ops   []Op
	world bool
}

var _ Surface = (*Recorder)(nil)

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Begin(width, height float64, bg color.NRGBA) {
	r.ops = r.ops[:0]
	r.world = false
	r.ops = append(r.ops, Op{Kind: OpBegin, Width: width, Height: height, Paint: HexA(bg)})
}

func (r *Recorder) SetTransform(a viewport.Affine) {
	r.world = true
	r.ops = append(r.ops, Op{Kind: OpTransform, X: a.TX, Y: a.TY, Scale: a.Scale})
}

func (r *Recorder) ResetTransform() {
	r.world = false
	r.ops = append(r.ops, Op{Kind: OpReset})
}

func (r *Recorder) Line(x1, y1, x2, y2, width float64, p Paint) {
	r.ops = append(r.ops, Op{Kind: OpLine, X: x1, Y: y1, X2: x2, Y2: y2, Width: width, Paint: p.String(), World: r.world})
}

func (r *Recorder) Circle(cx, cy, rad float64, p Paint) {
	r.ops = append(r.ops, Op{Kind: OpCircle, X: cx, Y: cy, R: rad, Paint: p.String(), World: r.world})
}

func (r *Recorder) Text(x, y float64, s string, t TextStyle) {
	r.ops = append(r.ops, Op{Kind: OpText, X: x, Y: y, Text: s, Paint: HexA(t.Color), World: r.world})
}

// Ops returns the ops recorded since the last Begin.
func (r *Recorder) Ops() []Op { return r.ops }

// Filter returns the recorded ops of one kind.
func (r *Recorder) Filter(kind string) []Op {
	var out []Op
	for _, op := range r.ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// WriteJSON writes the recorded ops as an indented JSON array.
func (r *Recorder) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.ops)
}
