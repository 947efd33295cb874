package circuitbreaker

import (
	"sort"
	"sync"
)

// Registry maps names to circuit breakers. Breakers are created lazily and
// live for the lifetime of the registry.
type Registry struct {
	mu       sync.RWMutex
	breakers map[string]*CircuitBreaker
	defaults Config
	opts     []Option
}

// NewRegistry creates a registry that builds breakers from defaults when no
// explicit configuration is supplied. opts are applied to every breaker.
func NewRegistry(defaults Config, opts ...Option) *Registry {
	return &Registry{
		breakers: make(map[string]*CircuitBreaker),
		defaults: defaults,
		opts:     opts,
	}
}

// GetOrCreate returns the breaker registered under name, creating it from cfg
// (or the registry defaults when cfg is nil) on first use. Once a breaker
// exists, cfg is ignored.
func (r *Registry) GetOrCreate(name string, cfg *Config) (*CircuitBreaker, error) {
	r.mu.RLock()
	cb, exists := r.breakers[name]
	r.mu.RUnlock()

	if exists {
		return cb, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check: another goroutine may have created it
	if cb, exists = r.breakers[name]; exists {
		return cb, nil
	}

	config := r.defaults
	if cfg != nil {
		config = *cfg
	}
	config.Name = name

	cb, err := New(config, r.opts...)
	if err != nil {
		return nil, err
	}
	r.breakers[name] = cb
	return cb, nil
}

// Get returns the breaker registered under name.
func (r *Registry) Get(name string) (*CircuitBreaker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cb, ok := r.breakers[name]
	return cb, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.breakers))
	for name := range r.breakers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllMetrics returns a snapshot of every registered breaker keyed by name.
func (r *Registry) AllMetrics() map[string]Metrics {
	r.mu.RLock()
	breakers := make(map[string]*CircuitBreaker, len(r.breakers))
	for name, cb := range r.breakers {
		breakers[name] = cb
	}
	r.mu.RUnlock()

	metrics := make(map[string]Metrics, len(breakers))
	for name, cb := range breakers {
		metrics[name] = cb.Metrics()
	}
	return metrics
}
