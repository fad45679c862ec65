package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boardview/pkg/cache"
	"github.com/matzehuels/boardview/pkg/core/module"
	"github.com/matzehuels/boardview/pkg/graph"
	"github.com/matzehuels/boardview/pkg/loader"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer means cache.DefaultKeyer and a nil cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete load → frame → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	loadStart := time.Now()
	loaded, err := loader.Load(ctx, opts.Dir, opts.LoaderOptions())
	if err != nil {
		return nil, err
	}
	res := &Result{
		Tree:    loaded.Tree,
		Skipped: loaded.Skipped,
	}
	res.Stats.LoadTime = time.Since(loadStart)
	res.Stats.Modules = loaded.Tree.Len()
	res.Stats.Connections = loaded.Tree.ConnectionCount()

	r.Logger.Info("loaded modules",
		"root", loaded.Root,
		"modules", res.Stats.Modules,
		"connections", res.Stats.Connections,
		"duration", res.Stats.LoadTime)
	for _, s := range loaded.Skipped {
		r.Logger.Debug("skipped directory", "path", s)
	}

	treeData, err := graph.MarshalGraph(loaded.Tree)
	if err != nil {
		return nil, fmt.Errorf("serialize tree: %w", err)
	}
	res.TreeHash = cache.Hash(treeData)

	frameStart := time.Now()
	f, hit, err := r.FrameWithCacheInfo(ctx, loaded.Tree, res.TreeHash, opts)
	if err != nil {
		return nil, err
	}
	res.Frame = f
	res.CacheInfo.FrameHit = hit
	res.Stats.FrameTime = time.Since(frameStart)
	res.Stats.Visible = len(f.Nodes)
	res.Stats.Edges = len(f.Edges)

	r.Logger.Info("computed frame",
		"visible", res.Stats.Visible,
		"edges", res.Stats.Edges,
		"cached", hit,
		"duration", res.Stats.FrameTime)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	res.Artifacts = artifacts
	res.CacheInfo.RenderHit = hit
	res.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", res.Stats.RenderTime)

	return res, nil
}

// FrameWithCacheInfo builds the frame for tree, reading and writing the
// cache under a key derived from treeHash and the frame options.
func (r *Runner) FrameWithCacheInfo(ctx context.Context, tree *module.Tree, treeHash string, opts Options) (graph.Frame, bool, error) {
	opts.SetDefaults()
	key, err := r.frameKey(treeHash, opts)
	if err != nil {
		return graph.Frame{}, false, err
	}

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if f, err := graph.UnmarshalFrame(data); err == nil {
				return f, true, nil
			}
			r.Logger.Debug("discarding unreadable cached frame", "key", key)
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
	}

	f, err := BuildFrame(tree, opts)
	if err != nil {
		return graph.Frame{}, false, err
	}
	if data, err := graph.MarshalFrame(f); err == nil {
		if err := r.Cache.Set(ctx, key, data, opts.ttl(TTLFrame)); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		}
	}
	return f, false, nil
}

func (r *Runner) frameKey(treeHash string, opts Options) (string, error) {
	cfgHash, err := cache.HashJSON(struct {
		Camera     any `json:"camera"`
		Controller any `json:"controller"`
	}{opts.Camera, opts.Controller})
	if err != nil {
		return "", fmt.Errorf("hash frame settings: %w", err)
	}
	return r.Keyer.FrameKey(treeHash, cache.FrameKeyOpts{
		Expand:     opts.Expand,
		ExpandAll:  opts.ExpandAll,
		ConfigHash: cfgHash,
	}), nil
}

// RenderWithCacheInfo renders every requested format of f. When all of them
// are cached, nothing is rendered and the second result is true.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f graph.Frame, opts Options) (map[string][]byte, bool, error) {
	opts.SetDefaults()
	frameData, err := graph.MarshalFrame(f)
	if err != nil {
		return nil, false, fmt.Errorf("serialize frame for cache key: %w", err)
	}
	frameHash := cache.Hash(frameData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, r.artifactKey(frameHash, format, opts)); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(ctx, f, sub)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		if err := r.Cache.Set(ctx, r.artifactKey(frameHash, format, opts), data, opts.ttl(TTLArtifact)); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
		}
	}
	return artifacts, false, nil
}

func (r *Runner) artifactKey(frameHash, format string, opts Options) string {
	return r.Keyer.ArtifactKey(frameHash, cache.ArtifactKeyOpts{
		Format:   format,
		Scale:    opts.Scale,
		Detailed: opts.Detailed,
		Fit:      opts.Fit,
		Engine:   opts.Engine,
	})
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (o *Options) ttl(def time.Duration) time.Duration {
	if o.CacheTTL > 0 {
		return o.CacheTTL
	}
	return def
}
