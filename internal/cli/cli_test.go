package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/config"
	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

const testGraphJSON = `{
  "nodes": [
    {"id": "a", "label": "Alpha", "fx": 400, "fy": 300, "radius": 20},
    {"id": "b", "x": 550, "y": 300}
  ],
  "edges": [{"source": "a", "target": "b"}]
}`

func writeTestGraph(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := os.WriteFile(path, []byte(testGraphJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testCLI(t *testing.T) *CLI {
	t.Helper()
	c := New(io.Discard, LogInfo)
	c.cfg = config.Default()
	c.cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")
	return c
}

func testSimOpts() simOpts {
	return simOpts{width: 800, height: 600, dpr: 1, ticks: 5, seed: 1}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		def  string
		want []string
	}{
		{"", "svg", []string{"svg"}},
		{"png", "svg", []string{"png"}},
		{"svg, PNG ,ops", "svg", []string{"svg", "png", "ops"}},
		{"svg,,png", "svg", []string{"svg", "png"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in, tt.def); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		output string
		format string
		count  int
		want   string
	}{
		{"from input", "data/graph.json", "", "svg", 1, "data/graph.svg"},
		{"explicit file", "graph.json", "out/x.png", "png", 1, "out/x.png"},
		{"explicit base", "graph.json", "out/x", "png", 1, "out/x.png"},
		{"multi format", "graph.json", "out/x.svg", "png", 2, "out/x.png"},
		{"ops", "graph.json", "", "ops", 1, "graph.ops.json"},
		{"layout", "graph.json", "", "json", 1, "graph.layout.json"},
		{"graphviz", "graph.json", "", "graphviz", 1, "graph.gv.svg"},
		{"stdout", "graph.json", "-", "svg", 1, "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := basePath(tt.input, tt.output)
			if got := outputPath(base, tt.output, tt.format, tt.count); got != tt.want {
				t.Errorf("outputPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	input := writeTestGraph(t)
	out := filepath.Join(t.TempDir(), "diagram")
	c := testCLI(t)

	opts := renderOpts{output: out, formats: "svg,png,ops", sim: testSimOpts()}
	if err := c.runRender(context.Background(), input, opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	checks := map[string]func([]byte) bool{
		out + ".svg":      func(b []byte) bool { return bytes.Contains(b, []byte("<svg")) },
		out + ".png":      func(b []byte) bool { return bytes.HasPrefix(b, []byte("\x89PNG")) },
		out + ".ops.json": func(b []byte) bool { return bytes.HasPrefix(bytes.TrimSpace(b), []byte("[")) },
	}
	first := map[string][]byte{}
	for path, ok := range checks {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if !ok(data) {
			t.Errorf("%s has unexpected content: %.40q", path, data)
		}
		first[path] = data
	}

	// Second run is served from the file cache and must match.
	if err := c.runRender(context.Background(), input, opts); err != nil {
		t.Fatalf("runRender (cached): %v", err)
	}
	for path, want := range first {
		got, _ := os.ReadFile(path)
		if !bytes.Equal(got, want) {
			t.Errorf("%s differs after cached render", path)
		}
	}
	if n := countEntries(c.cacheDir()); n != 4 {
		t.Errorf("cache entries = %d, want 4 (layout + 3 artifacts)", n)
	}
}

func TestRenderErrors(t *testing.T) {
	input := writeTestGraph(t)
	c := testCLI(t)

	tests := []struct {
		name  string
		input string
		opts  renderOpts
		code  errs.Code
	}{
		{"bad format", input, renderOpts{formats: "gif"}, errs.ErrCodeUnsupported},
		{"stdout multi", input, renderOpts{formats: "svg,png", output: "-"}, errs.ErrCodeInvalidInput},
		{"missing file", filepath.Join(t.TempDir(), "nope.json"), renderOpts{}, errs.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.sim = testSimOpts()
			tt.opts.noCache = true
			err := c.runRender(context.Background(), tt.input, tt.opts)
			if !errs.Is(err, tt.code) {
				t.Errorf("runRender error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExport(t *testing.T) {
	input := writeTestGraph(t)
	out := filepath.Join(t.TempDir(), "layout")
	c := testCLI(t)

	opts := exportOpts{output: out, formats: "json,dot", noCache: true, sim: testSimOpts()}
	if err := c.runExport(context.Background(), input, opts); err != nil {
		t.Fatalf("runExport: %v", err)
	}

	f, err := os.Open(out + ".layout.json")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	l, err := graph.ReadLayout(f, graph.FormatJSON)
	if err != nil {
		t.Fatalf("ReadLayout: %v", err)
	}
	if l.Tick != 5 || len(l.Nodes) != 2 {
		t.Errorf("layout tick = %d nodes = %d, want 5 and 2", l.Tick, len(l.Nodes))
	}

	dot, err := os.ReadFile(out + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"layout=neato;", `"a" [label="Alpha", pos="400,-300!"`, `"a" -- "b"`} {
		if !strings.Contains(string(dot), want) {
			t.Errorf("dot missing %q:\n%s", want, dot)
		}
	}
}

func TestExportUnsupported(t *testing.T) {
	c := testCLI(t)
	err := c.runExport(context.Background(), writeTestGraph(t), exportOpts{formats: "pdf", sim: testSimOpts()})
	if !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("runExport error = %v, want UNSUPPORTED", err)
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	run := func(args ...string) string {
		t.Helper()
		c := New(io.Discard, LogInfo)
		root := c.RootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs(append([]string{"--config", path}, args...))
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	if got := strings.TrimSpace(run("config", "path")); got != path {
		t.Errorf("config path = %q, want %q", got, path)
	}

	run("config", "init")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config init did not write %s: %v", path, err)
	}

	show := run("config", "show")
	for _, want := range []string{"[canvas]", "[physics]", "[server]"} {
		if !strings.Contains(show, want) {
			t.Errorf("config show missing %q:\n%s", want, show)
		}
	}
}

func TestSimOptsResolve(t *testing.T) {
	var opts simOpts
	cmd := &cobra.Command{Use: "test"}
	opts.addFlags(cmd)
	if err := cmd.ParseFlags([]string{"--ticks", "42"}); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Canvas.Width = 1024
	cfg.Canvas.Ticks = 7
	opts.resolve(cmd, cfg)
	if opts.width != 1024 {
		t.Errorf("width = %d, want config value 1024", opts.width)
	}
	if opts.ticks != 42 {
		t.Errorf("ticks = %d, want flag value 42", opts.ticks)
	}
}

func TestViewModel(t *testing.T) {
	g, err := graph.ReadGraph(strings.NewReader(testGraphJSON), graph.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	c := testCLI(t)
	m, err := c.newViewModel(context.Background(), g, viewOpts{fps: 30, sim: testSimOpts()})
	if err != nil {
		t.Fatalf("newViewModel: %v", err)
	}
	defer m.loop.Close()

	if m.Init() == nil {
		t.Error("Init() = nil, want a frame command")
	}

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if cols, rows := m.surface.Size(); cols != 80 || rows != 23 {
		t.Errorf("surface = %dx%d, want 80x23", cols, rows)
	}

	m.Update(frameMsg{})
	if m.tick != 1 {
		t.Errorf("tick = %d, want 1", m.tick)
	}

	// Cell (40, 11) maps to (405, 300), inside node a.
	m.Update(tea.MouseMsg{X: 40, Y: 11, Action: tea.MouseActionMotion})
	m.Update(tea.MouseMsg{X: 40, Y: 11, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 40, Y: 11, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m.Update(frameMsg{})

	if m.clicked != "Alpha" {
		t.Errorf("clicked = %q, want Alpha", m.clicked)
	}
	if m.hovered != "Alpha" {
		t.Errorf("hovered = %q, want Alpha", m.hovered)
	}
	if !strings.Contains(m.View(), "selected Alpha") {
		t.Errorf("status line missing click:\n%s", m.statusLine())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
	select {
	case <-m.loop.Done():
	default:
		t.Error("loop still open after quit")
	}
}

func TestCompleteGraphFile(t *testing.T) {
	exts, dir := completeGraphFile(nil, nil, "")
	if dir != cobra.ShellCompDirectiveFilterFileExt || !reflect.DeepEqual(exts, []string{"json", "yaml", "yml"}) {
		t.Errorf("first arg = %v, %v", exts, dir)
	}
	if _, dir := completeGraphFile(nil, []string{"crm.json"}, ""); dir != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("second arg directive = %v, want NoFileComp", dir)
	}
}

func TestCompletionScripts(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			root := New(io.Discard, LogInfo).RootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "config.toml"), "completion", shell})
			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), "forcegraph") {
				t.Errorf("%s script does not mention forcegraph", shell)
			}
		})
	}
}
