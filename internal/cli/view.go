package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boardview/internal/tui"
	"github.com/matzehuels/boardview/pkg/pipeline"
)

// viewCommand creates the view command, which opens the terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		expand    []string
		expandAll bool
		opts      tui.Options
	)

	cmd := &cobra.Command{
		Use:   "view [dir]",
		Short: "Explore a module tree in the terminal",
		Long: `Explore a module tree in the terminal.

Modules are drawn as nested boxes with their connections routed between
them. Pan with the arrow keys, zoom with +/- or the mouse wheel, select with
tab and press enter to expand or collapse. Drag a module with the mouse to
move it; esc puts it back. Press q to quit.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			res, err := c.loadTree(ctx, args[0], cfg)
			if err != nil {
				return err
			}

			popts := pipelineOptions(cfg)
			popts.Expand = expand
			popts.ExpandAll = expandAll
			ctrl, err := pipeline.NewController(res.Tree, popts)
			if err != nil {
				return err
			}

			opts.Title = filepath.Base(res.Root)
			c.Logger.Debug("starting viewer", "modules", res.Tree.Len())
			return tui.Run(ctx, ctrl, opts)
		},
	}

	cmd.Flags().StringSliceVar(&expand, "expand", nil, "module paths to expand, with their ancestors")
	cmd.Flags().BoolVar(&expandAll, "expand-all", false, "start with every module expanded")
	cmd.Flags().Float64Var(&opts.CellWidth, "cell-width", tui.DefaultCellWidth, "screen pixels per terminal column")
	cmd.Flags().Float64Var(&opts.CellHeight, "cell-height", tui.DefaultCellHeight, "screen pixels per terminal row")
	cmd.Flags().IntVar(&opts.PanCells, "pan", tui.DefaultPanCells, "cells moved per arrow key")

	_ = cmd.RegisterFlagCompletionFunc("expand", c.completeExpand)

	return cmd
}
