package ratelimit

import (
	"testing"
	"time"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		key      string
		calls    int
		wantPass int
	}{
		{
			name:     "burst allows initial requests",
			rps:      1,
			burst:    3,
			key:      "test",
			calls:    3,
			wantPass: 3,
		},
		{
			name:     "exceeding burst blocks",
			rps:      1,
			burst:    2,
			key:      "test",
			calls:    5,
			wantPass: 2,
		},
		{
			name:     "different keys are independent",
			rps:      1,
			burst:    1,
			key:      "key1",
			calls:    1,
			wantPass: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)
			defer rl.Stop()

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow(tt.key) {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	// Exhaust key1
	rl.Allow("key1")
	if rl.Allow("key1") {
		t.Error("key1 should be exhausted")
	}

	// key2 should still work
	if !rl.Allow("key2") {
		t.Error("key2 should be independent and allowed")
	}
}

func TestKeyedRateLimiter_Refill(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := newLimiter(1, 1, time.Minute, false)
	rl.now = func() time.Time { return now }

	if !rl.Allow("ip") {
		t.Fatal("first request should pass")
	}
	if rl.Allow("ip") {
		t.Fatal("second request should be throttled")
	}

	now = now.Add(time.Second)
	if !rl.Allow("ip") {
		t.Error("bucket should refill after one second")
	}
}

func TestPerMinute(t *testing.T) {
	rl := PerMinute(60, 2)
	defer rl.Stop()

	if rl.limit != 1 {
		t.Errorf("limit = %v, want 1 per second", rl.limit)
	}
	if rl.burst != 2 {
		t.Errorf("burst = %d, want 2", rl.burst)
	}
}

func TestKeyedRateLimiter_EvictIdle(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := newLimiter(1, 1, time.Minute, false)
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(45 * time.Second)
	rl.Allow("recent")

	now = now.Add(30 * time.Second)
	if removed := rl.evictIdle(); removed != 1 {
		t.Errorf("evictIdle() removed %d, want 1", removed)
	}
	if rl.Len() != 1 {
		t.Errorf("Len() = %d, want 1", rl.Len())
	}

	// An evicted key starts with a full bucket again.
	if !rl.Allow("old") {
		t.Error("evicted key should be allowed")
	}
}

func TestKeyedRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := New(1, 1)
	rl.Stop()
	rl.Shutdown()
}
