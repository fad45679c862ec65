// Package pipeline runs the load → frame → render pipeline for boardview.
//
// The CLI render command and the HTTP API's snapshot endpoint share this
// package so both produce identical artifacts for identical input.
//
// # Stages
//
//  1. Load: walk a directory into a module tree ([loader.Load])
//  2. Frame: lay out the tree with the requested expansion and route its
//     connections ([BuildFrame])
//  3. Render: turn the frame into SVG, DOT, PNG or JSON ([Render])
//
// Frames and artifacts are cached by content hash through a [Runner]:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Dir:     "./rover",
//	    Formats: []string{"svg", "png"},
//	    Fit:     true,
//	})
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"math"
	"time"

	"github.com/matzehuels/boardview/pkg/core/camera"
	"github.com/matzehuels/boardview/pkg/core/module"
	"github.com/matzehuels/boardview/pkg/errors"
	"github.com/matzehuels/boardview/pkg/graph"
	"github.com/matzehuels/boardview/pkg/interact"
	"github.com/matzehuels/boardview/pkg/loader"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultScale is the PNG pixel density.
	DefaultScale = 2.0

	// TTLFrame and TTLArtifact bound how long cached results live.
	TTLFrame    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Render engines.
const (
	// EngineNative draws SVG and PNG directly from the frame.
	EngineNative = "native"
	// EngineGraphviz feeds the DOT export through Graphviz.
	EngineGraphviz = "graphviz"
)

// Engines lists the supported render engines.
var Engines = []string{EngineNative, EngineGraphviz}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// Load options
	Dir         string   `json:"dir"`
	Skip        []string `json:"skip,omitempty"`
	NoGitignore bool     `json:"no_gitignore,omitempty"`
	MaxDepth    int      `json:"max_depth,omitempty"`

	// Frame options
	Expand    []string `json:"expand,omitempty"`
	ExpandAll bool     `json:"expand_all,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Fit      bool     `json:"fit,omitempty"`
	Engine   string   `json:"engine,omitempty"`

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`
	// CacheTTL overrides TTLFrame and TTLArtifact when positive.
	CacheTTL time.Duration `json:"-"`

	// Runtime options (not serialized)
	Camera     camera.Config    `json:"-"`
	Controller interact.Options `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Tree      *module.Tree
	TreeHash  string
	Skipped   []string
	Frame     graph.Frame
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Modules     int
	Connections int
	Visible     int
	Edges       int
	LoadTime    time.Duration
	FrameTime   time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	FrameHit  bool
	RenderHit bool // every artifact came from the cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormats checks that every format is supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f, graph.Formats); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaults fills unset render and controller options.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{graph.FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Engine == "" {
		o.Engine = EngineNative
	}
	if o.Camera == (camera.Config{}) {
		o.Camera = camera.DefaultConfig()
	}
	if o.Controller.ZoomStep == 0 {
		o.Controller = interact.DefaultOptions()
	}
}

// Validate applies defaults and checks the options.
func (o *Options) Validate() error {
	o.SetDefaults()
	if o.Dir == "" {
		return errors.New(errors.ErrCodeInvalidInput, "directory is required")
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateFormat(o.Engine, Engines); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "unsupported engine %q", o.Engine)
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be a positive number, got %g", o.Scale)
	}
	for _, p := range o.Expand {
		if err := errors.ValidatePath(p); err != nil {
			return err
		}
	}
	return nil
}

// LoaderOptions returns the loader settings of o.
func (o *Options) LoaderOptions() loader.Options {
	return loader.Options{Skip: o.Skip, NoGitignore: o.NoGitignore, MaxDepth: o.MaxDepth}
}
