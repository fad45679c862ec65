package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boardview/pkg/config"
	"github.com/matzehuels/boardview/pkg/errors"
	"github.com/matzehuels/boardview/pkg/graph"
	"github.com/matzehuels/boardview/pkg/pipeline"
)

// renderCommand creates the render command for writing snapshots.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		flags      pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render [dir]",
		Short: "Render a snapshot of a module tree",
		Long: `Render a snapshot of a module tree.

The tree is laid out collapsed unless --expand or --expand-all is given, its
connections are routed, and the result is written as SVG, PNG, DOT or JSON.
SVG snapshots include a small script so modules can be expanded and
collapsed in a browser.

Frames and artifacts are cached by content, so re-rendering an unchanged
tree is instant. Use --refresh to recompute or --no-cache to bypass the
cache entirely.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := pipelineOptions(cfg)
			opts.Dir = args[0]
			opts.Formats = parseFormats(formatsStr, cfg.Render.Formats)
			opts.Expand = flags.Expand
			opts.ExpandAll = flags.ExpandAll
			opts.Fit = flags.Fit
			opts.Engine = flags.Engine
			opts.Refresh = flags.Refresh
			if cmd.Flags().Changed("scale") {
				opts.Scale = flags.Scale
			}
			if cmd.Flags().Changed("detailed") {
				opts.Detailed = flags.Detailed
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg, png, dot, json (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format, - for stdout) or base path (multiple)")
	cmd.Flags().StringSliceVar(&flags.Expand, "expand", nil, "module paths to expand, with their ancestors")
	cmd.Flags().BoolVar(&flags.ExpandAll, "expand-all", false, "expand every module")
	cmd.Flags().BoolVar(&flags.Fit, "fit", false, "fit the drawing to its content instead of the viewport")
	cmd.Flags().BoolVar(&flags.Detailed, "detailed", false, "label DOT edges with connection details")
	cmd.Flags().Float64Var(&flags.Scale, "scale", pipeline.DefaultScale, "PNG pixel density")
	cmd.Flags().StringVar(&flags.Engine, "engine", pipeline.EngineNative, "render engine: native, graphviz")
	cmd.Flags().BoolVar(&flags.Refresh, "refresh", false, "recompute instead of reading the cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	_ = cmd.RegisterFlagCompletionFunc("expand", c.completeExpand)
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(graph.Formats, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("engine", cobra.FixedCompletions(pipeline.Engines, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, cfg *config.Config, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.Dir))
	spinner.Start()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if n := len(res.Skipped); n > 0 {
		printWarning("Skipped %d unreadable directories (use -v to list them)", n)
	}

	base, err := basePath(output, opts.Dir)
	if err != nil {
		return err
	}
	paths, err := writeArtifacts(res.Artifacts, opts.Formats, base, output)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}

	printSuccess("Rendered %s", opts.Dir)
	for _, p := range paths {
		printFile(p)
	}
	printRenderStats(res)
	printNextStep("Explore interactively", appName+" view "+opts.Dir)
	return nil
}

// basePath derives the output path without extension. Without an explicit
// output it is the directory's name in the working directory; a known
// format extension on output is stripped.
func basePath(output, dir string) (string, error) {
	if output == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", err
		}
		return filepath.Base(abs), nil
	}
	ext := filepath.Ext(output)
	if slices.Contains(graph.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext), nil
	}
	return output, nil
}

// writeArtifacts writes each format to base.<format> and returns the paths
// written. A single format goes to output itself when it carries an
// extension, or to stdout when output is "-".
func writeArtifacts(artifacts map[string][]byte, formats []string, base, output string) ([]string, error) {
	if output == "-" {
		if len(formats) != 1 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "stdout output takes exactly one format, got %d", len(formats))
		}
		_, err := os.Stdout.Write(artifacts[formats[0]])
		return nil, err
	}

	var paths []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
			path = output
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
