// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate calls the generative model service. One logical call
// per pipeline invocation; transient failures (rate limits, 5xx,
// network errors) are retried with exponential backoff, auth and
// invalid-request failures fail immediately.
package generate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

const defaultMaxRetries = 2

// Service abstracts the generative model so tests can supply a mock.
type Service interface {
	Generate(ctx context.Context, req types.GenerationRequest) (string, error)
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// CallWithRetry invokes the service, retrying transient failures up to
// maxRetries additional attempts. Permanent failures (auth, invalid
// request) return immediately. Every attempt is logged for diagnostics.
func CallWithRetry(ctx context.Context, svc Service, req types.GenerationRequest, maxRetries int, log *zap.Logger) (string, error) {
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	if log == nil {
		log = zap.NewNop()
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		raw, err := svc.Generate(ctx, req)
		if err == nil {
			log.Debug("generation succeeded", zap.Int("attempt", attempt+1))
			return raw, nil
		}
		if !transient(err) {
			log.Debug("generation failed permanently", zap.Int("attempt", attempt+1), zap.Error(err))
			return "", err
		}
		log.Debug("generation attempt failed", zap.Int("attempt", attempt+1), zap.Error(err))
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// transient reports whether err is worth retrying: rate limits, server
// errors, and network-level failures. Client errors like invalid API
// keys or malformed requests are permanent.
func transient(err error) bool {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		switch gErr.Code {
		case 429, 500, 502, 503, 504:
			return true
		}
		return false
	}
	// Invocation deadline and cancellation are terminal, not retryable.
	// Checked before net.Error: context.DeadlineExceeded satisfies it.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	// Unclassified errors (transport resets, truncated responses) are
	// treated as transient.
	return true
}
