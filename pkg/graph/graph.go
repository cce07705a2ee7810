package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

// =============================================================================
// Document - File Format
// =============================================================================

// Format is a graph document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is the on-disk form of a graph.
type Document struct {
	Nodes []NodeRecord `json:"nodes" yaml:"nodes"`
	Edges []Edge       `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// NodeRecord is the serialized form of a [Node]. Absent x/y leave the node
// unplaced; fx/fy pin it.
type NodeRecord struct {
	ID       string         `json:"id" yaml:"id"`
	Label    string         `json:"label,omitempty" yaml:"label,omitempty"`
	Category Category       `json:"category,omitempty" yaml:"category,omitempty"`
	Value    *float64       `json:"value,omitempty" yaml:"value,omitempty"`
	X        *float64       `json:"x,omitempty" yaml:"x,omitempty"`
	Y        *float64       `json:"y,omitempty" yaml:"y,omitempty"`
	FX       *float64       `json:"fx,omitempty" yaml:"fx,omitempty"`
	FY       *float64       `json:"fy,omitempty" yaml:"fy,omitempty"`
	Color    string         `json:"color,omitempty" yaml:"color,omitempty"`
	Radius   float64        `json:"radius,omitempty" yaml:"radius,omitempty"`
	Meta     map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errs.New(errs.ErrCodeUnsupported, "unsupported graph file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", errs.New(errs.ErrCodeUnsupported, "unsupported graph format %q", s)
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// ReadGraphFile reads a JSON or YAML document, chosen by extension.
func ReadGraphFile(path string) (*Graph, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f, format)
}

// ReadGraph decodes a document from r and builds a Graph.
func ReadGraph(r io.Reader, format Format) (*Graph, error) {
	doc, err := DecodeDocument(r, format)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

// DecodeDocument decodes a document without building a Graph.
func DecodeDocument(r io.Reader, format Format) (Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode json")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return Document{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode yaml")
		}
	default:
		return Document{}, errs.New(errs.ErrCodeUnsupported, "unsupported graph format %q", format)
	}
	return doc, nil
}

// WriteGraph encodes g, including current positions, to w.
func WriteGraph(w io.Writer, g *Graph, format Format) error {
	return encode(w, ToDocument(g), format)
}

// WriteGraphFile writes g to path in the format implied by its extension.
func WriteGraphFile(g *Graph, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(f, g, format)
}

// MarshalGraph encodes g to bytes.
func MarshalGraph(g *Graph, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(&buf, g, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Document ↔ Graph Conversion
// =============================================================================

// FromDocument converts a decoded document into a Graph.
func FromDocument(doc Document) (*Graph, error) {
	nodes := make([]Node, len(doc.Nodes))
	for i, r := range doc.Nodes {
		n := Node{
			ID:       r.ID,
			Label:    r.Label,
			Category: r.Category,
			Value:    r.Value,
			Color:    r.Color,
			Radius:   r.Radius,
			Meta:     copyMeta(r.Meta),
		}
		if r.X != nil && r.Y != nil {
			n.X, n.Y = *r.X, *r.Y
			n.Placed = true
		}
		if r.FX != nil && r.FY != nil {
			n.Pin(*r.FX, *r.FY)
			n.Placed = true
		}
		nodes[i] = n
	}
	return New(nodes, doc.Edges)
}

// ToDocument converts g to its serialized form. Every node is written with
// its current position.
func ToDocument(g *Graph) Document {
	doc := Document{
		Nodes: make([]NodeRecord, g.Len()),
		Edges: append([]Edge(nil), g.Edges()...),
	}
	for i := range g.nodes {
		n := &g.nodes[i]
		x, y := n.X, n.Y
		r := NodeRecord{
			ID:       n.ID,
			Label:    n.Label,
			Category: n.Category,
			Value:    n.Value,
			X:        &x,
			Y:        &y,
			Color:    n.Color,
			Radius:   n.Radius,
			Meta:     copyMeta(n.Meta),
		}
		if n.Pinned() {
			fx, fy := *n.FX, *n.FY
			r.FX, r.FY = &fx, &fy
		}
		doc.Nodes[i] = r
	}
	return doc
}

// =============================================================================
// Internal Helpers
// =============================================================================

func encode(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		return errs.New(errs.ErrCodeUnsupported, "unsupported graph format %q", format)
	}
	return nil
}

// copyMeta creates a shallow copy of metadata to avoid mutation.
func copyMeta(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
