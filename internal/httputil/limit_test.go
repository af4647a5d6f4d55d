// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedClient(t *testing.T, ts *httptest.Server, rps float64, burst int) *http.Client {
	t.Helper()
	base := ts.Client().Transport
	return &http.Client{Transport: NewPerHostLimiter(base, rps, burst)}
}

func TestPerHostLimiter_DelaysSameHost(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	// Burst of 1 at 10 rps: the second request must wait ~100ms.
	client := newLimitedClient(t, ts, 10, 1)

	start := time.Now()
	for i := 0; i < 2; i++ {
		resp, err := client.Get(ts.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond, "second request to the same host should be throttled")
}

func TestPerHostLimiter_IndependentHosts(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	ts1 := httptest.NewServer(handler)
	defer ts1.Close()
	ts2 := httptest.NewServer(handler)
	defer ts2.Close()

	limiter := NewPerHostLimiter(http.DefaultTransport, 10, 1)
	client := &http.Client{Transport: limiter}

	// One request to each host: neither should block on the other's bucket.
	start := time.Now()
	for _, u := range []string{ts1.URL, ts2.URL} {
		resp, err := client.Get(u)
		require.NoError(t, err)
		resp.Body.Close()
	}
	assert.Less(t, time.Since(start), 80*time.Millisecond, "requests to distinct hosts should not contend")
}

func TestPerHostLimiter_RespectsContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := newLimitedClient(t, ts, 0.1, 1)

	// First request consumes the burst.
	resp, err := client.Get(ts.URL)
	require.NoError(t, err)
	resp.Body.Close()

	// Second request would wait ~10s; the context cancels it first.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	assert.Error(t, err)
}

func TestPerHostLimiter_Defaults(t *testing.T) {
	l := NewPerHostLimiter(nil, 0, 0)
	assert.Equal(t, defaultRequestsPerSecond, l.rps)
	assert.Equal(t, defaultBurst, l.burst)
	assert.NotNil(t, l.base)
}
