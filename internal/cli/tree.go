package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boardview/pkg/core/module"
)

// treeCommand creates the tree command, which prints the module hierarchy.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		depth int
		conns bool
	)

	cmd := &cobra.Command{
		Use:   "tree [dir]",
		Short: "Print the module hierarchy of a directory",
		Long: `Print the module hierarchy of a directory.

Each module shows its type and, in brackets, how many connections it
declares. Use --connections to list the declared targets.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			res, err := c.loadTree(cmd.Context(), args[0], cfg)
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render(args[0]))
			fmt.Println(moduleTree(res.Tree, depth, conns))
			printNewline()
			printTreeSummary(res.Tree)
			if n := len(res.Skipped); n > 0 {
				printWarning("Skipped %d unreadable directories", n)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "maximum depth to print (0 for all)")
	cmd.Flags().BoolVar(&conns, "connections", false, "list declared connection targets")

	return cmd
}

// moduleTree builds the printable hierarchy of t down to maxDepth levels.
func moduleTree(t *module.Tree, maxDepth int, conns bool) *tree.Tree {
	root := tree.New().
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim)
	for _, m := range t.Roots() {
		root.Child(moduleNode(m, 1, maxDepth, conns))
	}
	return root
}

func moduleNode(m *module.Module, depth, maxDepth int, conns bool) any {
	descend := m.HasChildren() && (maxDepth == 0 || depth < maxDepth)
	label := moduleLabel(m, !descend)
	if !descend && !(conns && len(m.Connections) > 0) {
		return label
	}

	n := tree.Root(label).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim)
	if conns {
		for _, cn := range m.Connections {
			n.Child(StyleDim.Render(iconArrow + " " + cn.Target + " (" + cn.Label() + ")"))
		}
	}
	if descend {
		for _, child := range m.Children {
			n.Child(moduleNode(child, depth+1, maxDepth, conns))
		}
	}
	return n
}

// moduleLabel is "Name type [n]", with a "+k" suffix when k children are
// hidden below the depth limit.
func moduleLabel(m *module.Module, hidden bool) string {
	label := StyleValue.Render(m.Name) + " " + StyleDim.Render(string(m.Type))
	if n := len(m.Connections); n > 0 {
		label += " " + StyleNumber.Render(fmt.Sprintf("[%d]", n))
	}
	if hidden && m.HasChildren() {
		label += " " + StyleDim.Render(fmt.Sprintf("+%d", len(m.Children)))
	}
	return label
}
