// Package term implements render.Surface on a grid of terminal cells.
//
// The logical canvas is divided evenly into cols×rows cells. Shapes paint
// the cells whose centers they cover; translucent paints are blended with
// the background since a cell has a single foreground color.
package term

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/viewport"
)

// Glyphs used for shapes.
const (
	GlyphFill  = '█'
	GlyphDot   = '●'
	GlyphLine  = '·'
	GlyphBlank = ' '
)

// opaqueEnough is the alpha below which sub-cell shapes are not drawn.
const opaqueEnough = 0.9

type cell struct {
	r  rune
	fg color.NRGBA
}

// Surface is a character-cell canvas.
type Surface struct {
	cols, rows    int
	width, height float64
	bg            color.NRGBA
	tr            viewport.Affine
	cells         []cell
}

var _ render.Surface = (*Surface)(nil)

// New returns a cols×rows grid.
func New(cols, rows int) *Surface {
	s := &Surface{tr: viewport.Identity}
	s.Resize(cols, rows)
	return s
}

// Resize changes the grid size. Contents are cleared.
func (s *Surface) Resize(cols, rows int) {
	s.cols, s.rows = max(cols, 1), max(rows, 1)
	s.cells = make([]cell, s.cols*s.rows)
	for i := range s.cells {
		s.cells[i] = cell{r: GlyphBlank}
	}
}

// Size returns the grid size in cells.
func (s *Surface) Size() (cols, rows int) { return s.cols, s.rows }

// ToLogical maps a cell to the logical pixel at its center.
func (s *Surface) ToLogical(col, row int) (x, y float64) {
	cw, ch := s.cellSize()
	return (float64(col) + 0.5) * cw, (float64(row) + 0.5) * ch
}

// Cell returns the glyph and foreground at a cell.
func (s *Surface) Cell(col, row int) (rune, color.NRGBA) {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return GlyphBlank, s.bg
	}
	c := s.cells[row*s.cols+col]
	return c.r, c.fg
}

func (s *Surface) Begin(width, height float64, bg color.NRGBA) {
	s.width, s.height, s.bg = width, height, bg
	s.tr = viewport.Identity
	for i := range s.cells {
		s.cells[i] = cell{r: GlyphBlank, fg: bg}
	}
}

func (s *Surface) SetTransform(a viewport.Affine) { s.tr = a }
func (s *Surface) ResetTransform()                { s.tr = viewport.Identity }

func (s *Surface) Line(x1, y1, x2, y2, width float64, p render.Paint) {
	c0, r0 := s.toCell(x1, y1)
	c1, r1 := s.toCell(x2, y2)
	steps := max(abs(c1-c0), abs(r1-r0))
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		col := c0 + int(math.Round(t*float64(c1-c0)))
		row := r0 + int(math.Round(t*float64(r1-r0)))
		s.set(col, row, GlyphLine, s.shade(p, t))
	}
}

func (s *Surface) Circle(cx, cy, r float64, p render.Paint) {
	c := s.tr.Apply(viewport.Point{X: cx, Y: cy})
	px, py := c.X, c.Y
	pr := r * s.tr.Scale
	cw, ch := s.cellSize()

	minC, maxC := int(math.Floor((px-pr)/cw)), int(math.Floor((px+pr)/cw))
	minR, maxR := int(math.Floor((py-pr)/ch)), int(math.Floor((py+pr)/ch))
	type hit struct {
		col, row int
		t        float64
	}
	var hits []hit
	for row := minR; row <= maxR; row++ {
		for col := minC; col <= maxC; col++ {
			x, y := (float64(col)+0.5)*cw, (float64(row)+0.5)*ch
			if d := math.Hypot(x-px, y-py); d <= pr {
				hits = append(hits, hit{col, row, d / pr})
			}
		}
	}

	if len(hits) == 0 {
		if alpha(p) < opaqueEnough {
			return
		}
		col, row := s.toCell(cx, cy)
		s.set(col, row, GlyphDot, s.shade(p, 0))
		return
	}
	glyph := GlyphFill
	if len(hits) == 1 {
		glyph = GlyphDot
	}
	for _, h := range hits {
		s.set(h.col, h.row, glyph, s.shade(p, h.t))
	}
}

func (s *Surface) Text(x, y float64, str string, t render.TextStyle) {
	col, row := s.toCell(x, y)
	runes := []rune(str)
	if t.Align == render.AlignCenter {
		col -= len(runes) / 2
	}
	for i, r := range runes {
		s.set(col+i, row, r, t.Color)
	}
}

// String renders the grid with lipgloss colors, one line per row.
func (s *Surface) String() string {
	var sb strings.Builder
	bg := lipgloss.Color(render.Hex(s.bg))
	for row := 0; row < s.rows; row++ {
		var run strings.Builder
		runColor := s.cells[row*s.cols].fg
		flush := func() {
			if run.Len() == 0 {
				return
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(render.Hex(runColor))).Background(bg)
			sb.WriteString(style.Render(run.String()))
			run.Reset()
		}
		for col := 0; col < s.cols; col++ {
			c := s.cells[row*s.cols+col]
			if c.fg != runColor {
				flush()
				runColor = c.fg
			}
			run.WriteRune(c.r)
		}
		flush()
		if row < s.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Plain renders the grid without colors.
func (s *Surface) Plain() string {
	var sb strings.Builder
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			sb.WriteRune(s.cells[row*s.cols+col].r)
		}
		if row < s.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (s *Surface) cellSize() (cw, ch float64) {
	w, h := s.width, s.height
	if w <= 0 {
		w = float64(s.cols)
	}
	if h <= 0 {
		h = float64(s.rows)
	}
	return w / float64(s.cols), h / float64(s.rows)
}

func (s *Surface) toCell(x, y float64) (col, row int) {
	p := s.tr.Apply(viewport.Point{X: x, Y: y})
	cw, ch := s.cellSize()
	return int(math.Floor(p.X / cw)), int(math.Floor(p.Y / ch))
}

func (s *Surface) set(col, row int, r rune, fg color.NRGBA) {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return
	}
	s.cells[row*s.cols+col] = cell{r: r, fg: fg}
}

// shade returns the opaque color of p at parameter t (0..1 along a line or
// from center to rim), blended over the background.
func (s *Surface) shade(p render.Paint, t float64) color.NRGBA {
	c := p.Color
	if p.Kind != render.PaintSolid && len(p.Stops) > 0 {
		c = stopAt(p.Stops, t)
	}
	a := float64(c.A) / 255
	c.A = 255
	return render.Mix(s.bg, c, a)
}

func stopAt(stops []render.Stop, t float64) color.NRGBA {
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Offset {
			a, b := stops[i-1], stops[i]
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Color
			}
			return render.Mix(a.Color, b.Color, (t-a.Offset)/span)
		}
	}
	return stops[len(stops)-1].Color
}

func alpha(p render.Paint) float64 {
	if p.Kind != render.PaintSolid && len(p.Stops) > 0 {
		return float64(p.Stops[0].Color.A) / 255
	}
	return float64(p.Color.A) / 255
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
