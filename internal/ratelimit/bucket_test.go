package ratelimit

import (
	"testing"
	"time"
)

// fakeClock drives the bucket deterministically in tests.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }
func (c *fakeClock) now() time.Time          { return c.t }

func newTestBucket(capacity int, refillEvery time.Duration) (*Bucket, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	b := NewBucket(capacity, refillEvery)
	b.last = clock.t
	b.now = clock.now
	return b, clock
}

func TestAllowDrainsBucket(t *testing.T) {
	b, _ := newTestBucket(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !b.Allow() {
			t.Fatalf("Allow() = false on request %d, bucket should start full", i+1)
		}
	}
	if b.Allow() {
		t.Error("Allow() = true on an empty bucket")
	}
}

func TestRefillOverTime(t *testing.T) {
	b, clock := newTestBucket(3, time.Minute)

	for i := 0; i < 3; i++ {
		b.Allow()
	}
	if b.Allow() {
		t.Fatal("bucket should be empty")
	}

	// Half an interval accrues only a fractional token.
	clock.advance(30 * time.Second)
	if b.Allow() {
		t.Error("Allow() = true after half a refill interval")
	}

	clock.advance(30 * time.Second)
	if !b.Allow() {
		t.Error("Allow() = false after a full refill interval")
	}
}

func TestRefillCapsAtCapacity(t *testing.T) {
	b, clock := newTestBucket(2, time.Minute)

	clock.advance(time.Hour)
	if got := b.Remaining(); got != 2 {
		t.Errorf("Remaining() = %d after long idle, want capacity 2", got)
	}
}

func TestRemainingDoesNotConsume(t *testing.T) {
	b, _ := newTestBucket(2, time.Minute)

	if got := b.Remaining(); got != 2 {
		t.Fatalf("Remaining() = %d, want 2", got)
	}
	if got := b.Remaining(); got != 2 {
		t.Errorf("Remaining() consumed tokens: %d", got)
	}
	if !b.Allow() {
		t.Error("Allow() = false on a full bucket")
	}
	if got := b.Remaining(); got != 1 {
		t.Errorf("Remaining() = %d after one Allow, want 1", got)
	}
}
