// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

const (
	defaultRequestsPerSecond = 2.0
	defaultBurst             = 4
)

// PerHostLimiter is an http.RoundTripper that throttles requests per
// destination host. The limit is shared by every client built on the same
// limiter, so concurrent pipeline invocations cannot overwhelm a single
// external service. Requests to different hosts do not contend.
type PerHostLimiter struct {
	base     http.RoundTripper
	rps      float64
	burst    int
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewPerHostLimiter wraps base (nil means http.DefaultTransport) with a
// per-host token bucket of rps sustained requests per second and the given
// burst. Non-positive values fall back to the defaults.
func NewPerHostLimiter(base http.RoundTripper, rps float64, burst int) *PerHostLimiter {
	if base == nil {
		base = http.DefaultTransport
	}
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	if burst <= 0 {
		burst = defaultBurst
	}
	return &PerHostLimiter{
		base:     base,
		rps:      rps,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// RoundTrip waits for the host's token bucket before delegating. The wait
// respects the request context, so a cancelled invocation does not hold a
// slot.
func (l *PerHostLimiter) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := l.limiter(req.URL.Host).Wait(req.Context()); err != nil {
		return nil, err
	}
	return l.base.RoundTrip(req)
}

func (l *PerHostLimiter) limiter(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(l.rps), l.burst)
		l.limiters[host] = lim
	}
	return lim
}
