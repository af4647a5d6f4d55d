// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

// mockService returns scripted responses in order.
type mockService struct {
	responses []string
	errs      []error
	calls     int
}

func (m *mockService) Generate(_ context.Context, _ types.GenerationRequest) (string, error) {
	i := m.calls
	m.calls++
	var err error
	if i < len(m.errs) {
		err = m.errs[i]
	}
	var resp string
	if i < len(m.responses) {
		resp = m.responses[i]
	}
	return resp, err
}

func fastBackoff(t *testing.T) {
	t.Helper()
	old := backoffBase
	backoffBase = time.Millisecond
	t.Cleanup(func() { backoffBase = old })
}

func TestCallWithRetrySucceedsFirstAttempt(t *testing.T) {
	fastBackoff(t)
	svc := &mockService{responses: []string{"output"}}

	raw, err := CallWithRetry(context.Background(), svc, types.GenerationRequest{Prompt: "p"}, 2, nil)
	if err != nil {
		t.Fatalf("CallWithRetry: %v", err)
	}
	if raw != "output" {
		t.Errorf("raw = %q", raw)
	}
	if svc.calls != 1 {
		t.Errorf("calls = %d, want 1", svc.calls)
	}
}

func TestCallWithRetryRecoversFromTransient(t *testing.T) {
	fastBackoff(t)
	svc := &mockService{
		errs:      []error{&googleapi.Error{Code: 503}, &googleapi.Error{Code: 429}, nil},
		responses: []string{"", "", "recovered"},
	}

	raw, err := CallWithRetry(context.Background(), svc, types.GenerationRequest{Prompt: "p"}, 2, nil)
	if err != nil {
		t.Fatalf("CallWithRetry: %v", err)
	}
	if raw != "recovered" {
		t.Errorf("raw = %q", raw)
	}
	if svc.calls != 3 {
		t.Errorf("calls = %d, want 3", svc.calls)
	}
}

func TestCallWithRetryExhausts(t *testing.T) {
	fastBackoff(t)
	svc := &mockService{
		errs: []error{
			&googleapi.Error{Code: 503},
			&googleapi.Error{Code: 503},
			&googleapi.Error{Code: 503},
			&googleapi.Error{Code: 503},
		},
	}

	_, err := CallWithRetry(context.Background(), svc, types.GenerationRequest{Prompt: "p"}, 2, nil)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if svc.calls != 3 {
		t.Errorf("calls = %d, want 3 (no fourth attempt)", svc.calls)
	}
}

func TestCallWithRetryPermanentFailsImmediately(t *testing.T) {
	fastBackoff(t)
	tests := []struct {
		name string
		err  error
	}{
		{"invalid request", &googleapi.Error{Code: 400}},
		{"bad api key", &googleapi.Error{Code: 401}},
		{"forbidden", &googleapi.Error{Code: 403}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{errs: []error{tt.err}}
			_, err := CallWithRetry(context.Background(), svc, types.GenerationRequest{}, 2, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if svc.calls != 1 {
				t.Errorf("calls = %d, want 1 (no retry of permanent failure)", svc.calls)
			}
		})
	}
}

func TestCallWithRetryHonorsContext(t *testing.T) {
	old := backoffBase
	backoffBase = time.Hour
	defer func() { backoffBase = old }()

	ctx, cancel := context.WithCancel(context.Background())
	svc := &mockService{errs: []error{&googleapi.Error{Code: 503}}}

	done := make(chan error, 1)
	go func() {
		_, err := CallWithRetry(ctx, svc, types.GenerationRequest{}, 2, nil)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("CallWithRetry did not return after cancellation")
	}
}

func TestTransientClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limit", &googleapi.Error{Code: 429}, true},
		{"server error", &googleapi.Error{Code: 500}, true},
		{"bad gateway", &googleapi.Error{Code: 502}, true},
		{"unavailable", &googleapi.Error{Code: 503}, true},
		{"gateway timeout", &googleapi.Error{Code: 504}, true},
		{"bad request", &googleapi.Error{Code: 400}, false},
		{"unauthorized", &googleapi.Error{Code: 401}, false},
		{"not found", &googleapi.Error{Code: 404}, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"canceled", context.Canceled, false},
		{"wrapped googleapi", fmt.Errorf("gemini generate: %w", &googleapi.Error{Code: 403}), false},
		{"unclassified", fmt.Errorf("connection reset"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := transient(tt.err); got != tt.want {
				t.Errorf("transient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
