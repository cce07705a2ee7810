package pipeline

import (
	"bytes"
	"context"
	"fmt"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/export"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/render/raster"
	"github.com/matzehuels/forcegraph/pkg/render/svg"
	"github.com/matzehuels/forcegraph/pkg/view"
)

// RenderFromLayout draws l in every format of opts.Formats.
func RenderFromLayout(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	v, err := viewFromLayout(l, opts)
	if err != nil {
		return nil, fmt.Errorf("rebuild layout: %w", err)
	}
	defer v.Close()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, v, l, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFromLayoutData renders from a serialized JSON layout.
func RenderFromLayoutData(ctx context.Context, data []byte, opts Options) (map[string][]byte, error) {
	l, err := graph.ReadLayout(bytes.NewReader(data), graph.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return RenderFromLayout(ctx, l, opts)
}

func renderFormat(ctx context.Context, v *view.View, l graph.Layout, format string, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatSVG:
		var svgOpts []svg.Option
		if opts.EmbedFont {
			svgOpts = append(svgOpts, svg.WithEmbeddedFont())
		}
		s := svg.New(svgOpts...)
		v.Draw(s)
		return s.Bytes(), nil

	case FormatPNG:
		w, h := v.Size()
		s := raster.New(w, h, v.PixelRatio())
		v.Draw(s)
		if err := s.EncodePNG(&buf); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode png")
		}

	case FormatOps:
		rec := render.NewRecorder()
		v.Draw(rec)
		if err := rec.WriteJSON(&buf); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode draw ops")
		}

	case FormatJSON, FormatYAML:
		if err := graph.WriteLayout(&buf, l, graph.Format(format)); err != nil {
			return nil, err
		}

	case FormatDOT, FormatGraphviz:
		dot := export.ToDOT(v.Graph(), export.Options{
			Detailed:   opts.Detailed,
			Background: opts.Theme.Background,
		})
		if format == FormatDOT {
			return []byte(dot), nil
		}
		return export.RenderSVG(ctx, dot)

	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "unsupported format: %s", format)
	}
	return buf.Bytes(), nil
}
