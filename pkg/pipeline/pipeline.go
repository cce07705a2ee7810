// Package pipeline provides the headless layout and render pipeline for
// forcegraph.
//
// A live view runs until someone closes it. Headless callers instead want
// "simulate N ticks, then give me files", and they want it cached. This
// package implements that as two stages shared by the CLI commands:
//
//  1. Layout: run the simulation for a fixed number of ticks and snapshot
//     the positions as a [graph.Layout]
//  2. Render: draw a layout in one or more output formats
//
// Each stage can be run independently or as part of the complete pipeline.
// Layouts are cached by graph content and simulation options; artifacts are
// cached by layout content and render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, g, pipeline.Options{
//	    Ticks:   300,
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/cache"
	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/sim"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default canvas width in logical pixels.
	DefaultWidth = 800

	// DefaultHeight is the default canvas height in logical pixels.
	DefaultHeight = 600

	// DefaultTicks is the number of simulation ticks before a snapshot.
	DefaultTicks = 300

	// DefaultSeed is the default seed for initial placement jitter.
	DefaultSeed = uint64(1)
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"      // frame drawn by the svg surface
	FormatPNG      = "png"      // frame drawn by the raster surface
	FormatOps      = "ops"      // recorded draw operations as JSON
	FormatJSON     = "json"     // layout snapshot
	FormatYAML     = "yaml"     // layout snapshot
	FormatDOT      = "dot"      // Graphviz source with pinned positions
	FormatGraphviz = "graphviz" // SVG drawn by Graphviz from the DOT source
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatOps:      true,
	FormatJSON:     true,
	FormatYAML:     true,
	FormatDOT:      true,
	FormatGraphviz: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Layout options
	Width   int         `json:"width,omitempty"`
	Height  int         `json:"height,omitempty"`
	Ticks   int         `json:"ticks,omitempty"`
	Seed    uint64      `json:"seed,omitempty"`
	Physics *sim.Params `json:"physics,omitempty"`

	// Render options
	Formats    []string      `json:"formats,omitempty"`
	PixelRatio float64       `json:"dpr,omitempty"`
	Theme      *render.Theme `json:"theme,omitempty"`
	EmbedFont  bool          `json:"embed_font,omitempty"` // embed the label font in SVG output
	Detailed   bool          `json:"detailed,omitempty"`   // category and metadata in DOT labels

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Layout is the snapshot after the configured ticks.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeUnsupported, "invalid format: %q (must be one of: svg, png, ops, json, yaml, dot, graphviz)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and checks every option.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Ticks == 0 {
		o.Ticks = DefaultTicks
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Physics == nil {
		p := sim.DefaultParams()
		o.Physics = &p
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Width < 0 || o.Height < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "width and height must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.Ticks < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "ticks must not be negative, got %d", o.Ticks)
	}
	return o.Physics.Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.PixelRatio == 0 {
		o.PixelRatio = 1
	}
	if o.Theme == nil {
		t := render.DefaultTheme()
		o.Theme = &t
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errs.ValidatePixelRatio(o.PixelRatio); err != nil {
		return err
	}
	return o.Theme.Validate()
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:   o.Width,
		Height:  o.Height,
		Ticks:   o.Ticks,
		Seed:    o.Seed,
		Physics: o.Physics,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		k.Theme, k.EmbedFont = o.Theme, o.EmbedFont
	case FormatPNG:
		k.Theme, k.PixelRatio = o.Theme, o.PixelRatio
	case FormatOps:
		k.Theme = o.Theme
	case FormatDOT, FormatGraphviz:
		k.Theme, k.Detailed = o.Theme.Background, o.Detailed
	}
	return k
}
