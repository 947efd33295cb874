// Package querycache layers query-aware caching on top of the bounded in-process
// cache, optionally fronted by a shared remote key-value backend.
package querycache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/guttosm/graph-guard/internal/cache"
	"github.com/guttosm/graph-guard/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Store is the storage strategy behind a QueryCache.
type Store[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Set(ctx context.Context, key string, value V, ttl time.Duration)
	Delete(ctx context.Context, key string) bool
	Clear(ctx context.Context)
	InvalidatePattern(ctx context.Context, substring string)
	Stats() cache.Stats
	Mode() string
}

// RemoteBackend is a networked key-value store holding string values with a TTL.
type RemoteBackend interface {
	// Get returns the value and true, or false when the key does not exist.
	Get(ctx context.Context, key string) (string, bool, error)
	// SetEx stores value under key for ttl.
	SetEx(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes key and reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)
	// DeleteMatching deletes every key matching a glob pattern where '*' matches
	// any run of characters and a backslash quotes the next character.
	DeleteMatching(ctx context.Context, pattern string) (int64, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	Name() string
}

// LocalStore keeps everything in the process.
type LocalStore[V any] struct {
	local *cache.Cache[V]
}

// NewLocalStore creates a local-only store.
func NewLocalStore[V any](local *cache.Cache[V]) *LocalStore[V] {
	return &LocalStore[V]{local: local}
}

// Get returns the cached value for key.
func (s *LocalStore[V]) Get(_ context.Context, key string) (V, bool) {
	v, ok := s.local.Get(key)
	recordLocal(ok)
	return v, ok
}

// Set stores value for ttl.
func (s *LocalStore[V]) Set(_ context.Context, key string, value V, ttl time.Duration) {
	s.local.SetWithTTL(key, value, ttl)
	metrics.RecordCacheOperation("set", "local")
}

// Delete removes key.
func (s *LocalStore[V]) Delete(_ context.Context, key string) bool {
	return s.local.Delete(key)
}

// Clear drops every entry.
func (s *LocalStore[V]) Clear(_ context.Context) {
	s.local.Clear()
	metrics.RecordCacheOperation("clear", "local")
}

// InvalidatePattern clears the whole local cache. Keys are digests, so a
// substring cannot be matched against them.
func (s *LocalStore[V]) InvalidatePattern(_ context.Context, _ string) {
	s.local.Clear()
	metrics.RecordCacheOperation("invalidate", "local")
}

// Stats reports the local cache statistics.
func (s *LocalStore[V]) Stats() cache.Stats {
	return s.local.Stats()
}

// Mode names the strategy.
func (s *LocalStore[V]) Mode() string {
	return "memory"
}

// HybridStore reads and writes through a remote backend and falls back to the
// local cache whenever the backend misses or fails. Backend failures are
// logged and never returned.
type HybridStore[V any] struct {
	remote        RemoteBackend
	local         *cache.Cache[V]
	prefix        string
	remoteTimeout time.Duration
}

// HybridOption configures a HybridStore.
type HybridOption func(*hybridOptions)

type hybridOptions struct {
	remoteTimeout time.Duration
}

// WithRemoteTimeout bounds each remote call.
func WithRemoteTimeout(d time.Duration) HybridOption {
	return func(o *hybridOptions) {
		o.remoteTimeout = d
	}
}

// NewHybridStore creates a store backed by remote with local as fallback.
// prefix scopes pattern invalidation to this store's keys.
func NewHybridStore[V any](remote RemoteBackend, local *cache.Cache[V], prefix string, opts ...HybridOption) *HybridStore[V] {
	o := hybridOptions{remoteTimeout: 2 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	return &HybridStore[V]{
		remote:        remote,
		local:         local,
		prefix:        prefix,
		remoteTimeout: o.remoteTimeout,
	}
}

func (s *HybridStore[V]) remoteCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.remoteTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.remoteTimeout)
}

// Get tries the remote backend first, then the local cache.
func (s *HybridStore[V]) Get(ctx context.Context, key string) (V, bool) {
	rctx, cancel := s.remoteCtx(ctx)
	raw, found, err := s.remote.Get(rctx, key)
	cancel()

	switch {
	case err != nil:
		s.warn(err, "get", key, "Remote cache get failed; falling back to memory cache")
	case found:
		v, decodeErr := decodeValue[V](raw)
		if decodeErr == nil {
			metrics.RecordCacheOperation("get", "remote_hit")
			return v, true
		}
		s.warn(decodeErr, "decode", key, "Remote cache value could not be decoded")
	}

	v, ok := s.local.Get(key)
	recordLocal(ok)
	return v, ok
}

// Set writes to the remote backend, or to the local cache if that fails.
func (s *HybridStore[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.local.DefaultTTL()
	}

	payload, err := json.Marshal(value)
	if err != nil {
		s.warn(err, "encode", key, "Value is not JSON encodable; storing in memory cache")
		s.local.SetWithTTL(key, value, ttl)
		metrics.RecordCacheOperation("set", "local")
		return
	}

	rctx, cancel := s.remoteCtx(ctx)
	err = s.remote.SetEx(rctx, key, string(payload), ttl)
	cancel()
	if err == nil {
		metrics.RecordCacheOperation("set", "remote")
		return
	}

	s.warn(err, "set", key, "Remote cache set failed; storing in memory cache")
	s.local.SetWithTTL(key, value, ttl)
	metrics.RecordCacheOperation("set", "local")
}

// Delete removes key from both tiers.
func (s *HybridStore[V]) Delete(ctx context.Context, key string) bool {
	rctx, cancel := s.remoteCtx(ctx)
	deleted, err := s.remote.Delete(rctx, key)
	cancel()
	if err != nil {
		s.warn(err, "delete", key, "Remote cache delete failed")
	}
	return s.local.Delete(key) || deleted
}

// Clear removes every key under the prefix remotely and clears the local cache.
func (s *HybridStore[V]) Clear(ctx context.Context) {
	s.InvalidatePattern(ctx, "")
}

// InvalidatePattern deletes remote keys under the prefix containing substring,
// then clears the local cache.
func (s *HybridStore[V]) InvalidatePattern(ctx context.Context, substring string) {
	pattern := s.prefix + "*" + escapeGlob(substring) + "*"

	rctx, cancel := s.remoteCtx(ctx)
	n, err := s.remote.DeleteMatching(rctx, pattern)
	cancel()
	if err != nil {
		s.warn(err, "invalidate", pattern, "Remote cache invalidate failed")
	} else {
		log.Debug().
			Str("pattern", pattern).
			Int64("count", n).
			Msg("Invalidated remote cache entries")
	}

	s.local.Clear()
	metrics.RecordCacheOperation("invalidate", "hybrid")
}

// Stats reports the local tier statistics.
func (s *HybridStore[V]) Stats() cache.Stats {
	return s.local.Stats()
}

// Mode names the strategy.
func (s *HybridStore[V]) Mode() string {
	return s.remote.Name()
}

func (s *HybridStore[V]) warn(err error, op, key, msg string) {
	metrics.RecordCacheRemoteError(s.remote.Name(), op)
	log.Warn().
		Err(err).
		Str("backend", s.remote.Name()).
		Str("key", key).
		Msg(msg)
}

func recordLocal(hit bool) {
	if hit {
		metrics.RecordCacheOperation("get", "local_hit")
		return
	}
	metrics.RecordCacheOperation("get", "miss")
}

// decodeValue decodes a remote payload. Numbers are decoded as int64 when they
// are whole and fit, float64 otherwise, so integers survive the round trip.
func decodeValue[V any](raw string) (V, error) {
	var v V
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	if n, ok := restoreNumbers(any(v)).(V); ok {
		v = n
	}
	return v, nil
}

func restoreNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, e := range t {
			t[k] = restoreNumbers(e)
		}
	case []map[string]any:
		for _, m := range t {
			restoreNumbers(m)
		}
	case []any:
		for i, e := range t {
			t[i] = restoreNumbers(e)
		}
	}
	return v
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// escapeGlob quotes glob metacharacters so substring matches literally.
func escapeGlob(substring string) string {
	return globEscaper.Replace(substring)
}
