// Package fonts provides the label font for raster and SVG rendering.
//
// The Go Regular typeface ships with golang.org/x/image, so it is compiled
// into the binary and needs no system fonts.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family name used in SVG output.
const FontFamily = "Go Regular"

// FallbackFontFamily lists CSS fallbacks for viewers that drop the embedded font.
const FallbackFontFamily = `'Go Regular', 'Helvetica Neue', Arial, sans-serif`

// RegularTTF returns the TTF font data.
func RegularTTF() []byte {
	return goregular.TTF
}

// Cache for the parsed font and base64 encoding (computed once on first access).
var (
	parsed     *opentype.Font
	parseErr   error
	parseOnce  sync.Once
	ttfBase64  string
	base64Once sync.Once
)

// RegularTTFBase64 returns the TTF font data as a base64 string, for
// embedding in an SVG @font-face rule.
func RegularTTFBase64() string {
	base64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}

// Face returns a Go Regular face at size points (72 DPI, so points equal
// pixels before any transform). Callers own the returned face.
func Face(size float64) (font.Face, error) {
	parseOnce.Do(func() {
		parsed, parseErr = opentype.Parse(goregular.TTF)
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
