// Package ratelimit provides an injectable per-client token bucket, used to
// throttle login attempts by client IP.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is the capability the HTTP layer depends on.
type Limiter interface {
	Allow(clientID string) bool
}

// ClientLimiter keeps one token bucket per client identity. Buckets refill at
// burst tokens per window, so a client gets at most ~burst attempts within any
// window once drained.
type ClientLimiter struct {
	mu      sync.Mutex
	clients map[string]*rate.Limiter

	limit rate.Limit
	burst int
}

func NewClientLimiter(window time.Duration, burst int) *ClientLimiter {
	if burst < 1 {
		burst = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &ClientLimiter{
		clients: make(map[string]*rate.Limiter),
		limit:   rate.Every(window / time.Duration(burst)),
		burst:   burst,
	}
}

func (l *ClientLimiter) Allow(clientID string) bool {
	l.mu.Lock()
	limiter, ok := l.clients[clientID]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.clients[clientID] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}
