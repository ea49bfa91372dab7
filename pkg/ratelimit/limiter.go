package ratelimit

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Category selects which bucket family a request consumes from.
type Category string

const (
	CategoryGeneral Category = "general" // regular API calls
	CategoryRAG     Category = "rag"     // retrieval-augmented queries
)

// Limit describes one bucket shape: a burst capacity refilled with
// RefillTokens every RefillInterval.
type Limit struct {
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
}

func (l Limit) limiter() *rate.Limiter {
	interval := l.RefillInterval
	if l.RefillTokens > 1 {
		interval = l.RefillInterval / time.Duration(l.RefillTokens)
	}
	return rate.NewLimiter(rate.Every(interval), l.Capacity)
}

// AuthLimits pairs the authenticated and unauthenticated shapes of one
// category.
type AuthLimits struct {
	Authenticated   Limit
	Unauthenticated Limit
}

// Config holds every bucket shape. Retry-after and bucket creation both
// go through the same (category, authenticated) lookup.
type Config struct {
	General AuthLimits
	RAG     AuthLimits
}

func (c Config) lookup(category Category, authenticated bool) Limit {
	limits := c.General
	if category == CategoryRAG {
		limits = c.RAG
	}
	if authenticated {
		return limits.Authenticated
	}
	return limits.Unauthenticated
}

// DefaultConfig mirrors the production bucket shapes.
func DefaultConfig() Config {
	return Config{
		General: AuthLimits{
			Authenticated:   Limit{Capacity: 100, RefillTokens: 100, RefillInterval: time.Minute},
			Unauthenticated: Limit{Capacity: 20, RefillTokens: 20, RefillInterval: time.Minute},
		},
		RAG: AuthLimits{
			Authenticated:   Limit{Capacity: 20, RefillTokens: 20, RefillInterval: time.Minute},
			Unauthenticated: Limit{Capacity: 5, RefillTokens: 5, RefillInterval: time.Minute},
		},
	}
}

// Limiter hands out per-key token buckets. Buckets live in an expiring
// concurrent store so idle keys don't accumulate for the process
// lifetime.
type Limiter struct {
	cfg     Config
	buckets *gocache.Cache
}

func New(cfg Config) *Limiter {
	return &Limiter{
		cfg:     cfg,
		buckets: gocache.New(time.Hour, 10*time.Minute),
	}
}

// Allow consumes one token from the bucket identified by key within the
// given category and authentication state.
func (l *Limiter) Allow(key string, category Category, authenticated bool) bool {
	return l.bucket(key, category, authenticated).Allow()
}

// RetryAfter reports how long a rejected caller should wait before the
// bucket refills.
func (l *Limiter) RetryAfter(category Category, authenticated bool) time.Duration {
	return l.cfg.lookup(category, authenticated).RefillInterval
}

func (l *Limiter) bucket(key string, category Category, authenticated bool) *rate.Limiter {
	cacheKey := fmt.Sprintf("%s|%t|%s", category, authenticated, key)

	if v, ok := l.buckets.Get(cacheKey); ok {
		return v.(*rate.Limiter)
	}

	fresh := l.cfg.lookup(category, authenticated).limiter()
	// Add fails when another goroutine won the race; re-read either way.
	_ = l.buckets.Add(cacheKey, fresh, gocache.DefaultExpiration)
	if v, ok := l.buckets.Get(cacheKey); ok {
		return v.(*rate.Limiter)
	}
	return fresh
}
