package cache

import (
	"math"
	"sync"
	"time"
)

const rateWindow = time.Minute

// RateLimiter counts requests in a sliding 60 second window.
type RateLimiter struct {
	mu     sync.Mutex
	maxRPM int
	stamps []time.Time // ascending
	now    func() time.Time
}

func NewRateLimiter(maxRPM int) *RateLimiter {
	return &RateLimiter{maxRPM: maxRPM, now: time.Now}
}

func (r *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	r.now = now
	return r
}

func (r *RateLimiter) purge(now time.Time) {
	cut := 0
	for cut < len(r.stamps) && now.Sub(r.stamps[cut]) >= rateWindow {
		cut++
	}
	if cut > 0 {
		r.stamps = append(r.stamps[:0], r.stamps[cut:]...)
	}
}

// CheckLimit reports whether another request fits in the window.
func (r *RateLimiter) CheckLimit() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purge(r.now())
	return len(r.stamps) < r.maxRPM
}

func (r *RateLimiter) RecordRequest() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stamps = append(r.stamps, r.now())
}

// WaitTime is the number of seconds until the oldest request leaves the
// window, or zero when below capacity.
func (r *RateLimiter) WaitTime() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.purge(now)
	if len(r.stamps) < r.maxRPM || len(r.stamps) == 0 {
		return 0
	}
	remaining := rateWindow - now.Sub(r.stamps[0])
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Seconds()))
}

// Count returns the number of requests currently inside the window.
func (r *RateLimiter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purge(r.now())
	return len(r.stamps)
}
