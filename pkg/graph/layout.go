package graph

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

// Layout is a point-in-time snapshot of a running view: the graph with
// current positions plus the canvas and viewport it was computed for.
//
// A Layout file is also a valid graph document. Reading one back places
// every node where the snapshot left it.
type Layout struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Tick   int     `json:"tick" yaml:"tick"`
	Scale  float64 `json:"scale,omitempty" yaml:"scale,omitempty"`
	PanX   float64 `json:"pan_x,omitempty" yaml:"pan_x,omitempty"`
	PanY   float64 `json:"pan_y,omitempty" yaml:"pan_y,omitempty"`

	Nodes []NodeRecord `json:"nodes" yaml:"nodes"`
	Edges []Edge       `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// NewLayout snapshots g for a canvas of the given size.
func NewLayout(g *Graph, width, height float64, tick int) Layout {
	doc := ToDocument(g)
	return Layout{
		Width:  width,
		Height: height,
		Tick:   tick,
		Nodes:  doc.Nodes,
		Edges:  doc.Edges,
	}
}

// Document returns the graph part of the snapshot.
func (l Layout) Document() Document {
	return Document{Nodes: l.Nodes, Edges: l.Edges}
}

// WriteLayout encodes l to w.
func WriteLayout(w io.Writer, l Layout, format Format) error {
	return encode(w, l, format)
}

// ReadLayout decodes a snapshot written by [WriteLayout].
func ReadLayout(r io.Reader, format Format) (Layout, error) {
	var l Layout
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&l); err != nil {
			return Layout{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode layout json")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&l); err != nil && err != io.EOF {
			return Layout{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode layout yaml")
		}
	default:
		return Layout{}, errs.New(errs.ErrCodeUnsupported, "unsupported layout format %q", format)
	}
	return l, nil
}
