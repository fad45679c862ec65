package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/matzehuels/boardview/pkg/errors"
	"github.com/matzehuels/boardview/pkg/graph"
	"github.com/matzehuels/boardview/pkg/observability"
	"github.com/matzehuels/boardview/pkg/render/nodelink"
	"github.com/matzehuels/boardview/pkg/render/raster"
	"github.com/matzehuels/boardview/pkg/render/svg"
)

// Render generates one artifact per requested format from f.
func Render(ctx context.Context, f graph.Frame, opts Options) (map[string][]byte, error) {
	opts.SetDefaults()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		data, err := renderFormat(ctx, f, format, opts)
		observability.Pipeline().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, f graph.Frame, format string, opts Options) ([]byte, error) {
	dot := func() string { return nodelink.ToDOT(f, nodelink.Options{Detailed: opts.Detailed}) }

	switch format {
	case graph.FormatSVG:
		if opts.Engine == EngineGraphviz {
			return nodelink.RenderSVG(ctx, dot())
		}
		return svg.Render(f, svg.Options{Fit: opts.Fit, Interactive: true}), nil
	case graph.FormatPNG:
		if opts.Engine == EngineGraphviz {
			return nodelink.RenderPNG(ctx, dot())
		}
		data, err := raster.RenderPNG(f, opts.Scale)
		if stderrors.Is(err, raster.ErrTooLarge) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "scale %g is too large for this frame", opts.Scale)
		}
		return data, err
	case graph.FormatDOT:
		return []byte(dot()), nil
	case graph.FormatJSON:
		return graph.MarshalFrame(f)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
}
