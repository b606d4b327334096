// Package ratelimit provides the per-IP token-bucket limiter applied to
// the contact endpoints. Buckets are kept in a TTL cache so idle clients
// are forgotten instead of accumulating forever.
package ratelimit

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"
)

type Limiter struct {
	cache     *ttlcache.Cache[string, *rate.Limiter]
	perMinute int
	burst     int
}

// New builds a limiter allowing perMinute requests per client with the
// given burst. Buckets idle for ten minutes are evicted.
func New(perMinute, burst int) *Limiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = perMinute
	}

	cache := ttlcache.New(
		ttlcache.WithTTL[string, *rate.Limiter](10 * time.Minute),
	)
	go cache.Start()

	return &Limiter{cache: cache, perMinute: perMinute, burst: burst}
}

// Allow reports whether the client identified by key (normally its IP)
// may proceed.
func (l *Limiter) Allow(key string) bool {
	item := l.cache.Get(key)
	if item == nil {
		limiter := rate.NewLimiter(rate.Limit(float64(l.perMinute)/60.0), l.burst)
		item, _ = l.cache.GetOrSet(key, limiter)
	}
	return item.Value().Allow()
}

// Stop shuts down the eviction loop.
func (l *Limiter) Stop() {
	l.cache.Stop()
}
