package spam

import (
	"sync"
	"time"
)

const (
	// RateWindow is the trailing window for the per-origin rate check
	RateWindow = 5 * time.Minute

	// rateLimitPerWindow is the number of submissions an origin may make
	// within the window before further ones are blocked
	rateLimitPerWindow = 3
)

// History tracks recent submission timestamps per origin address. It is
// shared by all in-flight requests; a single mutex guards the map so that
// near-simultaneous submissions from one origin are both counted.
type History struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	origins map[string][]time.Time
}

// NewHistory creates an empty origin history with the standard window
func NewHistory() *History {
	return &History{
		window:  RateWindow,
		limit:   rateLimitPerWindow,
		origins: make(map[string][]time.Time),
	}
}

// Record prunes entries older than the window for the origin, then either
// appends now and returns true, or returns false without appending when
// the origin already has limit entries in the window.
func (h *History) Record(origin string, now time.Time) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	cutoff := now.Add(-h.window)
	recent := h.origins[origin][:0]
	for _, ts := range h.origins[origin] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= h.limit {
		h.origins[origin] = recent
		return false
	}

	h.origins[origin] = append(recent, now)
	return true
}

// Count returns the number of recorded submissions for the origin within
// the trailing window
func (h *History) Count(origin string, now time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	cutoff := now.Add(-h.window)
	count := 0
	for _, ts := range h.origins[origin] {
		if ts.After(cutoff) {
			count++
		}
	}
	return count
}

// Sweep evicts origins with no activity for twice the rate window and
// returns the number of evicted origins. It runs on a schedule outside
// the request path.
func (h *History) Sweep(now time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	cutoff := now.Add(-2 * h.window)
	evicted := 0
	for origin, timestamps := range h.origins {
		idle := true
		for _, ts := range timestamps {
			if ts.After(cutoff) {
				idle = false
				break
			}
		}
		if idle {
			delete(h.origins, origin)
			evicted++
		}
	}
	return evicted
}

// TrackedOrigins returns the number of origins currently held in memory
func (h *History) TrackedOrigins() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.origins)
}
