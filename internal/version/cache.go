package version

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/conneroisu/termfolio/internal/errors"
	"github.com/conneroisu/termfolio/internal/logging"
)

// Placeholder is shown when the version could not be determined.
const Placeholder = "unknown"

var errNoSource = errors.NewConfigError("ERR_VERSION_NO_SOURCE", "no version source configured")

// DefaultTimeout bounds a single descriptor fetch.
const DefaultTimeout = 3 * time.Second

// Cache resolves the portfolio version at most once per process. Callers
// arriving while the first fetch is in flight wait for it instead of issuing
// their own. A failed fetch is cached as Placeholder and never retried.
type Cache struct {
	source  Source
	timeout time.Duration
	logger  logging.Logger

	group singleflight.Group

	mu    sync.RWMutex
	value string
	done  bool
}

// NewCache creates a cache over source.
func NewCache(source Source, timeout time.Duration, logger logging.Logger) *Cache {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Cache{
		source:  source,
		timeout: timeout,
		logger:  logger.WithComponent("version"),
	}
}

// Get returns the cached version, fetching it first if this is the first
// call. If ctx ends before the shared fetch completes Get returns Placeholder
// without caching it; the fetch itself carries on for later callers.
func (c *Cache) Get(ctx context.Context) string {
	if value, ok := c.cached(); ok {
		return value
	}

	result := c.group.DoChan("version", func() (interface{}, error) {
		if value, ok := c.cached(); ok {
			return value, nil
		}
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		value := Placeholder
		descriptor, err := c.fetch(fetchCtx)
		if err != nil {
			c.logger.Warn(ctx, err, "version lookup failed, caching placeholder")
		} else {
			value = descriptor.Version
			c.logger.Debug(ctx, "version resolved", "version", value)
		}

		c.mu.Lock()
		c.value, c.done = value, true
		c.mu.Unlock()
		return value, nil
	})

	select {
	case res := <-result:
		return res.Val.(string)
	case <-ctx.Done():
		return Placeholder
	}
}

// Resolved reports whether a value has been cached.
func (c *Cache) Resolved() bool {
	_, ok := c.cached()
	return ok
}

func (c *Cache) cached() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.done
}

func (c *Cache) fetch(ctx context.Context) (descriptor Descriptor, err error) {
	if c.source == nil {
		return Descriptor{}, errNoSource
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.NewInternalError("ERR_VERSION_PANIC", "version source panicked", fmt.Errorf("%v", rec))
		}
	}()
	return c.source.Fetch(ctx)
}
