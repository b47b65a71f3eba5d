package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"guestbook/cmd/internal/httpx"
)

// ipLimiter is a per-IP sliding window over recent link requests. State is process-local.
type ipLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	hits   map[string][]time.Time
}

func newIPLimiter(max int, window time.Duration) *ipLimiter {
	return &ipLimiter{max: max, window: window, hits: make(map[string][]time.Time)}
}

// allow records a hit for key unless the window is full.
func (l *ipLimiter) allow(key string, now time.Time) (bool, time.Duration) {
	if l == nil || l.max <= 0 || key == "" {
		return true, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := pruneWindow(now, l.hits[key], l.window)
	if blocked, retry := evaluateWindowThrottle(now, recent, l.max, l.window); blocked {
		l.hits[key] = recent
		return false, retry
	}
	l.hits[key] = append(recent, now)

	// Keep the map bounded by dropping idle keys.
	if len(l.hits) > 4096 {
		for k, v := range l.hits {
			if len(pruneWindow(now, v, l.window)) == 0 {
				delete(l.hits, k)
			}
		}
	}
	return true, 0
}

// pruneWindow drops hits older than window. hits are in ascending order.
func pruneWindow(now time.Time, hits []time.Time, window time.Duration) []time.Time {
	cut := now.Add(-window)
	i := 0
	for i < len(hits) && !hits[i].After(cut) {
		i++
	}
	return hits[i:]
}

// evaluateWindowThrottle reports whether max hits inside window are already used, and when the oldest expires.
func evaluateWindowThrottle(now time.Time, hits []time.Time, max int, window time.Duration) (bool, time.Duration) {
	if max <= 0 {
		return false, 0
	}
	cut := now.Add(-window)
	var inWindow []time.Time
	for _, h := range hits {
		if h.After(cut) {
			inWindow = append(inWindow, h)
		}
	}
	if len(inWindow) < max {
		return false, 0
	}
	oldest := inWindow[0]
	for _, h := range inWindow[1:] {
		if h.Before(oldest) {
			oldest = h
		}
	}
	return true, oldest.Add(window).Sub(now)
}

func writeRateLimited(w http.ResponseWriter, retryAfter time.Duration) {
	if retryAfter > 0 {
		secs := int64(retryAfter / time.Second)
		if retryAfter%time.Second != 0 {
			secs++
		}
		w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
	}
	httpx.WriteError(w, http.StatusTooManyRequests, "Too many sign-in attempts. Please try again later.")
}
