package querycache

import (
	"context"
	"time"

	"github.com/guttosm/graph-guard/internal/cache"
	"github.com/rs/zerolog/log"
)

// Namespace prefixes every query cache key.
const Namespace = "query"

// Record is a single result row.
type Record = map[string]any

// Params are the query parameters.
type Params = map[string]any

// Config holds QueryCache settings.
type Config struct {
	// DefaultTTL applies to ordinary reads.
	DefaultTTL time.Duration
	// VolatileTTL applies to reads touching wall-clock dependent fields.
	VolatileTTL time.Duration
}

// DefaultConfig returns the standard TTLs.
func DefaultConfig() Config {
	return Config{
		DefaultTTL:  5 * time.Minute,
		VolatileTTL: time.Minute,
	}
}

// QueryCache caches query results keyed by query text and parameters.
type QueryCache struct {
	store  Store[[]Record]
	config Config
}

// New creates a QueryCache over store.
func New(store Store[[]Record], config Config) *QueryCache {
	defaults := DefaultConfig()
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = defaults.DefaultTTL
	}
	if config.VolatileTTL <= 0 {
		config.VolatileTTL = defaults.VolatileTTL
	}
	return &QueryCache{store: store, config: config}
}

// Key returns "query:<sha256(query + ':' + canonical params)>". Nil params
// are encoded as an empty object.
func Key(query string, params Params) string {
	if params == nil {
		params = Params{}
	}
	payload := query + ":" + string(cache.CanonicalJSON(params))
	return Namespace + ":" + cache.Digest([]byte(payload))
}

// TTLFor returns the TTL to use for the result of query.
func (q *QueryCache) TTLFor(query string) time.Duration {
	if IsVolatile(query) {
		return q.config.VolatileTTL
	}
	return q.config.DefaultTTL
}

// Get returns the cached result of query with params.
func (q *QueryCache) Get(ctx context.Context, query string, params Params) ([]Record, bool) {
	return q.store.Get(ctx, Key(query, params))
}

// Set caches result for query with params. A non-positive ttl uses TTLFor(query).
func (q *QueryCache) Set(ctx context.Context, query string, params Params, result []Record, ttl time.Duration) {
	if ttl <= 0 {
		ttl = q.TTLFor(query)
	}
	q.store.Set(ctx, Key(query, params), result, ttl)
}

// Delete removes the cached result of query with params.
func (q *QueryCache) Delete(ctx context.Context, query string, params Params) bool {
	return q.store.Delete(ctx, Key(query, params))
}

// Clear drops all cached results.
func (q *QueryCache) Clear(ctx context.Context) {
	q.store.Clear(ctx)
}

// InvalidatePattern removes entries whose key contains substring. The local
// tier is always cleared entirely.
func (q *QueryCache) InvalidatePattern(ctx context.Context, substring string) {
	q.store.InvalidatePattern(ctx, substring)
}

// InvalidateForWrite invalidates entries for each label in query, or
// everything when no label can be extracted.
func (q *QueryCache) InvalidateForWrite(ctx context.Context, query string) {
	labels := ExtractLabels(query)
	if len(labels) == 0 {
		q.store.InvalidatePattern(ctx, "")
		log.Debug().Msg("Invalidated query cache (unscoped)")
		return
	}

	for _, label := range labels {
		q.store.InvalidatePattern(ctx, label)
	}
	log.Debug().Strs("labels", labels).Msg("Invalidated query cache")
}

// Stats reports the local tier statistics.
func (q *QueryCache) Stats() cache.Stats {
	return q.store.Stats()
}

// Mode names the active storage strategy.
func (q *QueryCache) Mode() string {
	return q.store.Mode()
}
