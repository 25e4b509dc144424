// Package ratelimit provides the token bucket guarding the metered odds
// feed. The poller owns one bucket per process and passes it into the
// fetch path; there is no global call counter.
package ratelimit

import (
	"sync"
	"time"
)

// Bucket is a token bucket: it holds up to capacity tokens and refills
// one token per refill interval. Safe for concurrent use.
type Bucket struct {
	mu       sync.Mutex
	capacity float64
	tokens   float64
	refill   time.Duration
	last     time.Time
	now      func() time.Time
}

// NewBucket creates a full bucket that refills one token per interval.
func NewBucket(capacity int, refillEvery time.Duration) *Bucket {
	return &Bucket{
		capacity: float64(capacity),
		tokens:   float64(capacity),
		refill:   refillEvery,
		last:     time.Now(),
		now:      time.Now,
	}
}

// Allow consumes a token if one is available.
func (b *Bucket) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance()
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Remaining reports the whole tokens currently available.
func (b *Bucket) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance()
	return int(b.tokens)
}

// advance credits tokens accrued since the last observation. Callers must
// hold the mutex.
func (b *Bucket) advance() {
	if b.refill <= 0 {
		return
	}
	now := b.now()
	elapsed := now.Sub(b.last)
	if elapsed <= 0 {
		return
	}
	b.tokens += float64(elapsed) / float64(b.refill)
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.last = now
}
