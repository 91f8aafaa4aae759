package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/crisis-data-service/internal/domain"
	"github.com/couchcryptid/crisis-data-service/internal/observability"
	gocache "github.com/patrickmn/go-cache"
)

// CachedBuilder wraps a Builder with an in-memory TTL cache. Base tables never
// change, so a cached view stays correct for its whole lifetime; the TTL only
// bounds memory. Cached bundles are shared between callers and must be
// treated as read-only.
type CachedBuilder struct {
	inner   Builder
	cache   *gocache.Cache
	metrics *observability.Metrics
}

// NewCachedBuilder creates a cache decorator around a builder. ttl must be
// positive; go-cache treats a zero TTL as never expiring.
func NewCachedBuilder(inner Builder, ttl time.Duration, metrics *observability.Metrics) *CachedBuilder {
	return &CachedBuilder{
		inner:   inner,
		cache:   gocache.New(ttl, 2*ttl),
		metrics: metrics,
	}
}

func (c *CachedBuilder) BuildView(kind domain.Kind, f domain.Filters) (Bundle, error) {
	key := cacheKey(kind, f)
	if v, ok := c.cache.Get(key); ok {
		c.metrics.ViewCache.WithLabelValues("hit").Inc()
		return v.(Bundle), nil
	}
	c.metrics.ViewCache.WithLabelValues("miss").Inc()

	bundle, err := c.inner.BuildView(kind, f)
	if err != nil {
		return bundle, err
	}
	c.cache.SetDefault(key, bundle)
	return bundle, nil
}

// Len returns the number of cached views.
func (c *CachedBuilder) Len() int {
	return c.cache.ItemCount()
}

// cacheKey normalizes non-restricting category and zone values so "", "All"
// and " All " share one entry. Category and zone are caller-supplied, so they
// are quoted to keep a "|" inside a value from shifting the other parts.
func cacheKey(kind domain.Kind, f domain.Filters) string {
	return fmt.Sprintf("%s|%q|%q|%s|%s", kind, keyPart(f.Category), keyPart(f.Zone), f.DateStart, f.DateEnd)
}

func keyPart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.All
	}
	return s
}
