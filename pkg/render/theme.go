package render

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

// Theme holds the renderer's fixed visual constants. Colors are hex strings
// so a theme can be loaded straight from configuration.
type Theme struct {
	Background string  `toml:"background"`
	EdgeColor  string  `toml:"edge_color"`
	EdgeAlpha  float64 `toml:"edge_alpha"` // opacity of gradient edges
	LabelColor string  `toml:"label_color"`
	LabelSize  float64 `toml:"label_size"`

	// Nodes with a radius above LabelRadius are always labeled.
	LabelRadius float64 `toml:"label_radius"`
	LabelOffset float64 `toml:"label_offset"`
	HoverScale  float64 `toml:"hover_scale"`
	GlowScale   float64 `toml:"glow_scale"`

	Legend        bool    `toml:"legend"`
	LegendX       float64 `toml:"legend_x"`
	LegendY       float64 `toml:"legend_y"`
	LegendSpacing float64 `toml:"legend_spacing"`
	LegendSize    float64 `toml:"legend_size"`
}

// DefaultTheme returns the dark theme.
func DefaultTheme() Theme {
	return Theme{
		Background:    "#0f172a",
		EdgeColor:     "#475569",
		EdgeAlpha:     0.4,
		LabelColor:    "#e2e8f0",
		LabelSize:     12,
		LabelRadius:   15,
		LabelOffset:   14,
		HoverScale:    1.3,
		GlowScale:     2,
		Legend:        true,
		LegendX:       16,
		LegendY:       20,
		LegendSpacing: 18,
		LegendSize:    11,
	}
}

// Validate checks that every color parses.
func (t Theme) Validate() error {
	for name, v := range map[string]string{
		"background":  t.Background,
		"edge_color":  t.EdgeColor,
		"label_color": t.LabelColor,
	} {
		if _, err := ParseColor(v); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "theme %s", name)
		}
	}
	if t.EdgeAlpha < 0 || t.EdgeAlpha > 1 {
		return errs.New(errs.ErrCodeInvalidInput, "theme edge_alpha must be in [0, 1], got %v", t.EdgeAlpha)
	}
	return nil
}

// ParseColor parses #rgb or #rrggbb into an opaque color.
func ParseColor(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	return toNRGBA(c, 1), nil
}

// WithAlpha returns c with its alpha replaced by a (0..1).
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(math.Round(clamp01(a) * 255))
	return c
}

// Mix blends a toward b in CIE L*a*b* space. t=0 is a, t=1 is b.
func Mix(a, b color.NRGBA, t float64) color.NRGBA {
	m := fromNRGBA(a).BlendLab(fromNRGBA(b), clamp01(t))
	alpha := (float64(a.A)*(1-t) + float64(b.A)*t) / 255
	return toNRGBA(m, alpha)
}

// Lighten blends c toward white by t, keeping its alpha.
func Lighten(c color.NRGBA, t float64) color.NRGBA {
	return Mix(c, color.NRGBA{R: 255, G: 255, B: 255, A: c.A}, t)
}

func fromNRGBA(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func toNRGBA(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(alpha) * 255))}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
