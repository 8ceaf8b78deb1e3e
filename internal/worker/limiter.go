// Package worker provides outbound-call pacing and fan-out helpers for
// the provider clients.
package worker

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter paces outbound requests per API host. Google Places, Yelp
// Fusion, and OpenAI each get an independent token bucket, so a burst
// against one quota never delays calls to the others.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	rate    rate.Limit
	burst   int
}

// NewLimiter creates a limiter that applies the given pace to every
// host it has not been told about explicitly.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	return &Limiter{
		buckets: make(map[string]*rate.Limiter),
		rate:    rate.Limit(requestsPerSecond),
		burst:   burst,
	}
}

// Wait blocks until the URL's host has capacity or the context ends.
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	bucket, err := l.bucket(rawURL)
	if err != nil {
		return err
	}
	return bucket.Wait(ctx)
}

// Allow reports whether a call to the URL's host may proceed right now,
// without waiting.
func (l *Limiter) Allow(rawURL string) bool {
	bucket, err := l.bucket(rawURL)
	if err != nil {
		return false
	}
	return bucket.Allow()
}

// SetHostRate overrides the pace for one host, replacing any bucket
// already accumulated for it.
func (l *Limiter) SetHostRate(host string, requestsPerSecond float64, burst int) {
	if burst <= 0 {
		burst = l.burst
	}
	l.mu.Lock()
	l.buckets[host] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	l.mu.Unlock()
}

func (l *Limiter) bucket(rawURL string) (*rate.Limiter, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("rate limit %q: %w", rawURL, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	bucket, ok := l.buckets[parsed.Host]
	if !ok {
		bucket = rate.NewLimiter(l.rate, l.burst)
		l.buckets[parsed.Host] = bucket
	}
	return bucket, nil
}
