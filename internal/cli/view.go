package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/loop"
	"github.com/matzehuels/forcegraph/pkg/render/term"
	"github.com/matzehuels/forcegraph/pkg/view"
)

// viewOpts holds options for the view command.
type viewOpts struct {
	fps int
	sim simOpts
}

// viewCommand creates the interactive terminal view.
func (c *CLI) viewCommand() *cobra.Command {
	var opts viewOpts

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Run a live view in the terminal",
		Long: `View runs the simulation live in the terminal. Drag nodes with the mouse,
zoom with the wheel, and click a node to select it.

Keys: q quit · r reheat · 0 reset zoom`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.sim.resolve(cmd, c.config())
			if !cmd.Flags().Changed("fps") {
				opts.fps = c.config().Canvas.FPS
			}
			return c.runView(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.fps, "fps", loop.DefaultFPS, "frames per second")
	opts.sim.addFlags(cmd)

	return cmd
}

func (c *CLI) runView(ctx context.Context, input string, opts viewOpts) error {
	g, err := c.loadGraph(input)
	if err != nil {
		return err
	}

	m, err := c.newViewModel(ctx, g, opts)
	if err != nil {
		return err
	}
	defer m.loop.Close()

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

// =============================================================================
// Model
// =============================================================================

// frameMsg drives one loop frame.
type frameMsg time.Time

// viewModel is the bubbletea model for a live terminal view. Update runs
// on the program goroutine and drives the loop with Frame, so that
// goroutine owns the view.
type viewModel struct {
	ctx      context.Context
	loop     *loop.Loop
	surface  *term.Surface
	interval time.Duration
	title    string

	clicked string
	hovered string
	tick    int
	energy  float64
}

func (c *CLI) newViewModel(ctx context.Context, g *graph.Graph, opts viewOpts) (*viewModel, error) {
	m := &viewModel{
		ctx:      ctx,
		surface:  term.New(80, 23),
		interval: time.Second / time.Duration(max(opts.fps, 1)),
		title:    fmt.Sprintf("%d nodes · %d edges", g.Len(), len(g.Edges())),
	}
	v, err := c.newView(g, opts.sim, view.Options{
		OnNodeClick: func(n *graph.Node) { m.clicked = n.DisplayLabel() },
		OnNodeHover: func(n *graph.Node) {
			if n == nil {
				m.hovered = ""
				return
			}
			m.hovered = n.DisplayLabel()
		},
	})
	if err != nil {
		return nil, err
	}
	m.loop = loop.New(v, m.surface, loop.WithFPS(opts.fps))
	return m, nil
}

func (m *viewModel) Init() tea.Cmd {
	return m.nextFrame()
}

func (m *viewModel) nextFrame() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		stats := m.loop.Frame(m.ctx)
		m.tick, m.energy = stats.Tick, stats.Energy
		return m, m.nextFrame()

	case tea.WindowSizeMsg:
		m.surface.Resize(msg.Width, max(msg.Height-1, 1))
		return m, nil

	case tea.MouseMsg:
		m.pointer(msg)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.loop.Close()
			return m, tea.Quit
		case "r":
			m.loop.Post(func(v *view.View) { v.Engine().Reheat() })
		case "0":
			m.loop.Post(func(v *view.View) { v.Viewport().Reset() })
		}
	}
	return m, nil
}

// pointer forwards a mouse event to the view. Cell coordinates become
// logical canvas coordinates at the cell center.
func (m *viewModel) pointer(msg tea.MouseMsg) {
	if msg.Y >= m.rows() {
		m.loop.Post(func(v *view.View) { v.PointerLeave() })
		return
	}
	x, y := m.surface.ToLogical(msg.X, msg.Y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.loop.Post(func(v *view.View) { v.Wheel(-1) })
	case msg.Button == tea.MouseButtonWheelDown:
		m.loop.Post(func(v *view.View) { v.Wheel(1) })
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.loop.Post(func(v *view.View) { v.PointerDown(x, y) })
	case msg.Action == tea.MouseActionRelease:
		m.loop.Post(func(v *view.View) { v.PointerUp(x, y) })
	case msg.Action == tea.MouseActionMotion:
		m.loop.Post(func(v *view.View) { v.PointerMove(x, y) })
	}
}

func (m *viewModel) rows() int {
	_, rows := m.surface.Size()
	return rows
}

func (m *viewModel) View() string {
	return m.surface.String() + "\n" + m.statusLine()
}

func (m *viewModel) statusLine() string {
	line := styleStatusKey.Render("forcegraph") + " " + styleStatusBar.Render(m.title+
		fmt.Sprintf("%stick %d%senergy %.1f", statusSep, m.tick, statusSep, m.energy))
	if m.hovered != "" {
		line += styleStatusBar.Render(statusSep+"hover") + " " + styleStatusNode.Render(m.hovered)
	}
	if m.clicked != "" {
		line += styleStatusBar.Render(statusSep+"selected") + " " + styleStatusNode.Render(m.clicked)
	}
	return line
}
