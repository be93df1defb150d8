package cache

import (
	"context"

	"github.com/avelazco/contactdeck/internal/observability"
)

type instrumented struct {
	inner  Cache
	prom   *observability.Prom
	family string
}

// WithMetrics counts hits and misses per key family on top of any backend.
func WithMetrics(inner Cache, prom *observability.Prom, family string) Cache {
	if prom == nil {
		return inner
	}

	return &instrumented{inner: inner, prom: prom, family: family}
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool) {
	val, ok := c.inner.Get(ctx, key)

	if ok {
		c.prom.CacheHits.WithLabelValues(c.family).Inc()
	} else {
		c.prom.CacheMisses.WithLabelValues(c.family).Inc()
	}

	return val, ok
}

func (c *instrumented) Set(ctx context.Context, key string, val []byte) {
	c.inner.Set(ctx, key, val)
}

func (c *instrumented) Delete(ctx context.Context, key string) {
	c.inner.Delete(ctx, key)
}
