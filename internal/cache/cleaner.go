package cache

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrInvalidInterval is returned when a cleaner interval is not positive.
var ErrInvalidInterval = errors.New("cleanup interval must be positive")

// Sweeper removes expired entries and reports how many it removed.
type Sweeper interface {
	CleanupExpired() int
}

// Cleaner periodically sweeps expired entries so idle caches do not hold
// memory until the next access.
type Cleaner struct {
	sweeper  Sweeper
	interval time.Duration
	name     string

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewCleaner creates a stopped cleaner. Call Start to begin sweeping.
func NewCleaner(sweeper Sweeper, interval time.Duration, name string) (*Cleaner, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	return &Cleaner{
		sweeper:  sweeper,
		interval: interval,
		name:     name,
	}, nil
}

// Start launches the sweep goroutine. Calling Start on a running cleaner is a no-op.
func (c *Cleaner) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}
	c.running = true
	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})

	go c.run(c.stopCh, c.doneCh)
}

// Stop cancels the sweep goroutine and waits for it to exit.
// Calling Stop on a stopped cleaner is a no-op.
func (c *Cleaner) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	stopCh, doneCh := c.stopCh, c.doneCh
	c.mu.Unlock()

	close(stopCh)
	<-doneCh
}

// Running reports whether the sweep goroutine is active.
func (c *Cleaner) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Cleaner) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := c.sweeper.CleanupExpired(); removed > 0 {
				log.Debug().
					Str("cache", c.name).
					Int("count", removed).
					Msg("Cache cleanup removed entries")
			}
		case <-stopCh:
			return
		}
	}
}
