// Package cache stores derived artifacts keyed by content hash.
//
// The render command lays out a tree and renders it once per distinct
// input. The input (tree JSON, expansion request and layout settings) is
// hashed into a frame key; the frame JSON is hashed into artifact keys, one
// per output format. A rerun with the same input is served from the cache.
//
// Three backends implement [Cache]:
//
//   - [NullCache] stores nothing
//   - [FileCache] keeps JSON-wrapped entries under a directory
//   - [RedisCache] talks to a Redis server through go-redis
//
// [Instrument] wraps any of them so hits, misses and writes reach the
// registered observability.CacheHooks.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/boardview/pkg/observability"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// =============================================================================
// Keys
// =============================================================================

// Keyer derives cache keys.
type Keyer interface {
	FrameKey(treeHash string, opts FrameKeyOpts) string
	ArtifactKey(frameHash string, opts ArtifactKeyOpts) string
}

// FrameKeyOpts are the inputs besides the tree that determine a frame.
type FrameKeyOpts struct {
	Expand     []string `json:"expand,omitempty"`
	ExpandAll  bool     `json:"expand_all,omitempty"`
	ConfigHash string   `json:"config_hash,omitempty"`
}

// ArtifactKeyOpts are the inputs besides the frame that determine an
// artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Scale    float64 `json:"scale,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	Fit      bool    `json:"fit,omitempty"`
	Engine   string  `json:"engine,omitempty"`
}

// DefaultKeyer hashes the inputs under fixed prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// FrameKey returns "frame:" plus the hash of the tree hash and opts.
func (DefaultKeyer) FrameKey(treeHash string, opts FrameKeyOpts) string {
	return hashKey("frame", treeHash, opts)
}

// ArtifactKey returns "artifact:<format>:" plus the hash of the frame hash
// and opts.
func (DefaultKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, frameHash, opts)
}

// =============================================================================
// Instrumentation
// =============================================================================

type instrumented struct {
	Cache
}

// Instrument reports every Get and Set of c to the cache hooks.
func Instrument(c Cache) Cache {
	return instrumented{Cache: c}
}

func (c instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, ok, err
}

func (c instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}

// keyType is the prefix of key up to the first colon, skipping any scope
// added by [ScopedKeyer].
func keyType(key string) string {
	for _, t := range []string{"frame", "artifact"} {
		if strings.HasPrefix(key, t+":") || strings.Contains(key, ":"+t+":") {
			return t
		}
	}
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
