package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/sim"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"ops", false},
		{"json", false},
		{"yaml", false},
		{"dot", false},
		{"graphviz", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errs.Is(err, errs.ErrCodeUnsupported) {
			t.Errorf("ValidateFormat(%q) code = %s, want UNSUPPORTED", tt.format, errs.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	if opts.Width != DefaultWidth {
		t.Errorf("Width = %d, want %d", opts.Width, DefaultWidth)
	}
	if opts.Height != DefaultHeight {
		t.Errorf("Height = %d, want %d", opts.Height, DefaultHeight)
	}
	if opts.Ticks != DefaultTicks {
		t.Errorf("Ticks = %d, want %d", opts.Ticks, DefaultTicks)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", opts.Seed, DefaultSeed)
	}
	if opts.Physics == nil || *opts.Physics != sim.DefaultParams() {
		t.Errorf("Physics = %v, want defaults", opts.Physics)
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.PixelRatio != 1 {
		t.Errorf("PixelRatio = %v, want 1", opts.PixelRatio)
	}
	if opts.Theme == nil {
		t.Error("Theme should default")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"png"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	physics := opts.Physics
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.Physics != physics {
		t.Error("Physics changed on second call")
	}
}

func TestOptionsValidationErrors(t *testing.T) {
	bad := sim.DefaultParams()
	bad.Damping = 1.5

	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"negative ticks", Options{Ticks: -1}, errs.ErrCodeInvalidInput},
		{"negative width", Options{Width: -5}, errs.ErrCodeInvalidInput},
		{"bad physics", Options{Physics: &bad}, errs.ErrCodeInvalidInput},
		{"bad format", Options{Formats: []string{"gif"}}, errs.ErrCodeUnsupported},
		{"bad dpr", Options{PixelRatio: 100}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errs.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{PixelRatio: 2, EmbedFont: true, Detailed: true}
	opts.SetRenderDefaults()

	if k := opts.ArtifactKeyOpts(FormatPNG); k.PixelRatio != 2 || k.EmbedFont {
		t.Errorf("png key = %+v, want dpr only", k)
	}
	if k := opts.ArtifactKeyOpts(FormatSVG); k.PixelRatio != 0 || !k.EmbedFont {
		t.Errorf("svg key = %+v, want embed font only", k)
	}
	if k := opts.ArtifactKeyOpts(FormatJSON); k.Theme != nil || k.Detailed {
		t.Errorf("json key = %+v, want format only", k)
	}
	if k := opts.ArtifactKeyOpts(FormatDOT); !k.Detailed {
		t.Errorf("dot key = %+v, want detailed", k)
	}
}

// =============================================================================
// Stages
// =============================================================================

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	fx, fy := 400.0, 300.0
	g, err := graph.New([]graph.Node{
		{ID: "hub", Label: "Hub", FX: &fx, FY: &fy, X: fx, Y: fy, Placed: true},
		{ID: "a", X: 300, Y: 200, Placed: true},
		{ID: "b", X: 500, Y: 400, Placed: true},
	}, []graph.Edge{
		{Source: "hub", Target: "a"},
		{Source: "hub", Target: "b"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGenerateLayout(t *testing.T) {
	g := testGraph(t)
	l, err := GenerateLayout(context.Background(), g, Options{Ticks: 25})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}

	if l.Tick != 25 {
		t.Errorf("Tick = %d, want 25", l.Tick)
	}
	if l.Width != DefaultWidth || l.Height != DefaultHeight {
		t.Errorf("canvas = %vx%v, want %dx%d", l.Width, l.Height, DefaultWidth, DefaultHeight)
	}
	hub := l.Nodes[0]
	if *hub.X != 400 || *hub.Y != 300 {
		t.Errorf("pinned hub moved to (%v, %v)", *hub.X, *hub.Y)
	}
	if *l.Nodes[1].X == 300 && *l.Nodes[1].Y == 200 {
		t.Error("free node a did not move")
	}
	if a := g.Node("a"); a.X != 300 || a.Y != 200 {
		t.Errorf("input graph mutated: a = (%v, %v)", a.X, a.Y)
	}
}

func TestGenerateLayoutDeterministic(t *testing.T) {
	g := testGraph(t)
	l1, _ := GenerateLayout(context.Background(), g, Options{Ticks: 40, Seed: 9})
	l2, _ := GenerateLayout(context.Background(), g, Options{Ticks: 40, Seed: 9})
	for i := range l1.Nodes {
		if *l1.Nodes[i].X != *l2.Nodes[i].X || *l1.Nodes[i].Y != *l2.Nodes[i].Y {
			t.Errorf("node %d differs between identical runs", i)
		}
	}
}

func TestGenerateLayoutCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := GenerateLayout(ctx, testGraph(t), Options{Ticks: 10}); err != context.Canceled {
		t.Errorf("GenerateLayout error = %v, want context.Canceled", err)
	}
}

func TestRenderFromLayout(t *testing.T) {
	l, err := GenerateLayout(context.Background(), testGraph(t), Options{Ticks: 5})
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := RenderFromLayout(context.Background(), l, Options{
		Formats: []string{FormatSVG, FormatPNG, FormatOps, FormatYAML, FormatDOT},
	})
	if err != nil {
		t.Fatalf("RenderFromLayout: %v", err)
	}

	checks := map[string]string{
		FormatSVG:  "<svg",
		FormatPNG:  "\x89PNG",
		FormatOps:  `"op"`,
		FormatYAML: "tick: 5",
		FormatDOT:  `"hub" [label="Hub", pos="400,-300!"`,
	}
	for format, want := range checks {
		if !bytes.Contains(artifacts[format], []byte(want)) {
			t.Errorf("%s artifact missing %q", format, want)
		}
	}
}

func TestRenderFromLayoutData(t *testing.T) {
	l, _ := GenerateLayout(context.Background(), testGraph(t), Options{Ticks: 1})
	data, err := marshalLayout(l)
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := RenderFromLayoutData(context.Background(), data, Options{Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatalf("RenderFromLayoutData: %v", err)
	}
	if !strings.Contains(string(artifacts[FormatJSON]), `"tick": 1`) {
		t.Errorf("json artifact = %s", artifacts[FormatJSON])
	}

	if _, err := RenderFromLayoutData(context.Background(), []byte("{"), Options{}); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("bad layout error = %v, want INVALID_FORMAT", err)
	}
}

func TestViewFromLayoutRestoresViewport(t *testing.T) {
	l, _ := GenerateLayout(context.Background(), testGraph(t), Options{Ticks: 1})
	l.Scale, l.PanX, l.PanY = 2, 10, -5

	opts := Options{}
	opts.SetRenderDefaults()
	v, err := viewFromLayout(l, opts)
	if err != nil {
		t.Fatal(err)
	}
	vp := v.Viewport()
	if vp.Scale != 2 || vp.PanX != 10 || vp.PanY != -5 {
		t.Errorf("viewport = %v/%v/%v, want 2/10/-5", vp.Scale, vp.PanX, vp.PanY)
	}
}

// =============================================================================
// Runner
// =============================================================================

// memCache is an in-memory cache.Cache that counts hits.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	if ok {
		c.hits++
	}
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestRunnerExecute(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)
	g := testGraph(t)
	opts := Options{Ticks: 10, Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(context.Background(), g, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}
	if first.Stats.NodeCount != 3 || first.Stats.EdgeCount != 2 {
		t.Errorf("Stats = %+v, want 3 nodes 2 edges", first.Stats)
	}
	if len(mc.data) != 3 {
		t.Errorf("cache entries = %d, want 3 (layout + 2 artifacts)", len(mc.data))
	}

	second, err := r.Execute(context.Background(), g, opts)
	if err != nil {
		t.Fatalf("Execute (cached): %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}
	if first.GraphHash != second.GraphHash || first.GraphHash == "" {
		t.Errorf("GraphHash = %q then %q", first.GraphHash, second.GraphHash)
	}

	// A different tick count is a different layout.
	third, err := r.Execute(context.Background(), g, Options{Ticks: 11, Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LayoutHit {
		t.Error("changed ticks should miss the layout cache")
	}
}

func TestRunnerInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), testGraph(t), Options{Formats: []string{"gif"}})
	if !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("Execute error = %v, want UNSUPPORTED", err)
	}
}

func TestGraphHashIgnoresEncoding(t *testing.T) {
	const jsonDoc = `{"nodes":[{"id":"a","x":1,"y":2}],"edges":[]}`
	const yamlDoc = "nodes:\n  - id: a\n    x: 1\n    y: 2\n"
	gj, err := graph.ReadGraph(strings.NewReader(jsonDoc), graph.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	gy, err := graph.ReadGraph(strings.NewReader(yamlDoc), graph.FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if GraphHash(gj) != GraphHash(gy) {
		t.Error("GraphHash differs between JSON and YAML spellings")
	}
}
