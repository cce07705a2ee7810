package cache

import "fmt"

// Keyer builds cache keys. Keys that depend on options hash them, so any
// change to an option produces a different key.
type Keyer interface {
	// LayoutKey identifies node positions after a headless run.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies one output file rendered from a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string

	// FrameKey identifies an encoded frame of a live view at a given tick.
	FrameKey(viewID string, tick int, format string) string
}

// LayoutKeyOpts are the inputs that determine a layout besides the graph.
type LayoutKeyOpts struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Ticks   int    `json:"ticks"`
	Seed    uint64 `json:"seed"`
	Physics any    `json:"physics,omitempty"`
}

// ArtifactKeyOpts are the inputs that determine a rendered artifact besides
// the layout it is drawn from.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	PixelRatio float64 `json:"dpr"`
	Theme      any     `json:"theme,omitempty"`
	EmbedFont  bool    `json:"embed_font,omitempty"`
	Detailed   bool    `json:"detailed,omitempty"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// FrameKey returns "frame:<id>:<tick>.<format>".
func (DefaultKeyer) FrameKey(viewID string, tick int, format string) string {
	return fmt.Sprintf("frame:%s:%d.%s", viewID, tick, format)
}
