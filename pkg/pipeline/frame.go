package pipeline

import (
	"github.com/matzehuels/boardview/pkg/core/camera"
	"github.com/matzehuels/boardview/pkg/core/module"
	"github.com/matzehuels/boardview/pkg/errors"
	"github.com/matzehuels/boardview/pkg/graph"
	"github.com/matzehuels/boardview/pkg/interact"
)

// NewController returns a controller for tree with the expansion requested
// in opts applied. Every path in opts.Expand must name a module; its
// ancestors are expanded with it.
func NewController(tree *module.Tree, opts Options) (*interact.Controller, error) {
	opts.SetDefaults()
	cam, err := camera.New(opts.Camera)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "camera")
	}
	c := interact.New(tree, cam, opts.Controller)
	if opts.ExpandAll {
		c.ExpandAll()
	}
	for _, p := range opts.Expand {
		p = module.Clean(p)
		if _, ok := tree.Module(p); !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "no module %q", p)
		}
		c.Reveal(p)
	}
	return c, nil
}

// BuildFrame lays out tree as [NewController] would and returns the routed
// frame.
func BuildFrame(tree *module.Tree, opts Options) (graph.Frame, error) {
	c, err := NewController(tree, opts)
	if err != nil {
		return graph.Frame{}, err
	}
	return c.Frame(), nil
}
