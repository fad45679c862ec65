package loader

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/matzehuels/boardview/pkg/core/module"
	"github.com/matzehuels/boardview/pkg/errors"
	"github.com/matzehuels/boardview/pkg/observability"
)

// ConnectionFiles are the file names read for connections, in priority order.
var ConnectionFiles = []string{"connections.json", "connections.yaml", "connections.yml"}

// DefaultSkip lists directory names that never describe hardware.
var DefaultSkip = []string{"node_modules", "__pycache__", "vendor"}

// Options configures [Load].
type Options struct {
	// Skip lists directory names to leave out, in addition to DefaultSkip.
	Skip []string
	// NoGitignore disables .gitignore matching.
	NoGitignore bool
	// MaxDepth limits the directory depth below the root. Zero means no limit.
	MaxDepth int
}

// Result is a loaded tree plus what the walk left out.
type Result struct {
	Tree    *module.Tree
	Root    string   // absolute root directory
	Skipped []string // relative directories not loaded
}

// Load reads the directory tree at root.
//
// Errors carry a code: INVALID_PATH when root is not a directory,
// INVALID_FORMAT for a malformed connection file (wrapped with its path) and
// INVALID_TREE when the collected modules do not form a valid tree.
func Load(ctx context.Context, root string, opts Options) (res *Result, err error) {
	start := time.Now()
	defer func() {
		modules, conns := 0, 0
		if res != nil {
			modules, conns = res.Tree.Len(), res.Tree.ConnectionCount()
		}
		observability.Pipeline().OnLoadComplete(ctx, root, modules, conns, time.Since(start), err)
	}()

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", root)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "root %s", root)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", root)
	}

	w := &walker{
		root:  abs,
		name:  filepath.Base(abs),
		opts:  opts,
		skip:  skipSet(opts.Skip),
		conns: make(map[string][]module.Connection),
	}
	if !opts.NoGitignore {
		w.gi = loadGitignore(abs)
	}

	if err := filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			if path == abs {
				return err
			}
			w.skipped = append(w.skipped, w.rel(path))
			return filepath.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		return w.visitDir(path)
	}); err != nil {
		if errors.GetCode(err) != "" || ctx.Err() != nil {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "walk %s", root)
	}

	tree, err := module.New(w.paths, w.conns)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "build module tree")
	}
	if err := tree.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "validate module tree")
	}
	slices.Sort(w.skipped)
	return &Result{Tree: tree, Root: abs, Skipped: w.skipped}, nil
}

type walker struct {
	root    string
	name    string
	opts    Options
	skip    map[string]bool
	gi      *ignore.GitIgnore
	paths   []string
	conns   map[string][]module.Connection
	skipped []string
}

func (w *walker) visitDir(path string) error {
	rel := w.rel(path)
	if path != w.root {
		base := filepath.Base(path)
		if strings.HasPrefix(base, ".") {
			return filepath.SkipDir
		}
		if w.skip[base] || w.ignored(rel) || w.tooDeep(rel) {
			w.skipped = append(w.skipped, rel)
			return filepath.SkipDir
		}
	}

	mp := w.modulePath(rel)
	w.paths = append(w.paths, mp)

	conns, err := readDirConnections(path)
	if err != nil {
		return err
	}
	if len(conns) > 0 {
		w.conns[mp] = conns
	}
	return nil
}

func (w *walker) rel(path string) string {
	r, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(r)
}

func (w *walker) modulePath(rel string) string {
	if rel == "." {
		return w.name
	}
	return module.Join(w.name, rel)
}

func (w *walker) ignored(rel string) bool {
	return w.gi != nil && (w.gi.MatchesPath(rel) || w.gi.MatchesPath(rel+"/"))
}

func (w *walker) tooDeep(rel string) bool {
	return w.opts.MaxDepth > 0 && strings.Count(rel, "/")+1 > w.opts.MaxDepth
}

func skipSet(extra []string) map[string]bool {
	m := make(map[string]bool, len(DefaultSkip)+len(extra))
	for _, s := range DefaultSkip {
		m[s] = true
	}
	for _, s := range extra {
		if s = strings.TrimSpace(s); s != "" {
			m[s] = true
		}
	}
	return m
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
