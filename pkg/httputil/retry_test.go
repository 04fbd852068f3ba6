package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		attempts  int
		failUntil int // fn fails on calls before this (1-indexed), retryable
		permanent bool
		wantCalls int
		wantErr   bool
	}{
		{"succeeds first try", 3, 1, false, 1, false},
		{"succeeds after retry", 3, 3, false, 3, false},
		{"exhausts attempts", 3, 10, false, 3, true},
		{"permanent error stops immediately", 3, 10, true, 1, true},
		{"zero attempts clamps to one", 0, 1, false, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, time.Millisecond, func() error {
				calls++
				if tt.permanent {
					return errors.New("permanent failure")
				}
				if calls < tt.failUntil {
					return &RetryableError{Err: errors.New("transient failure")}
				}
				return nil
			})

			if (err != nil) != tt.wantErr {
				t.Errorf("Retry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, 3, time.Minute, func() error {
		calls++
		return &RetryableError{Err: errors.New("transient")}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry after cancellation)", calls)
	}
}

func TestRetryableError_Unwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := &RetryableError{Err: inner}

	if !errors.Is(err, inner) {
		t.Error("RetryableError should unwrap to inner error")
	}
	if err.Error() != "connection reset" {
		t.Errorf("Error() = %q, want %q", err.Error(), "connection reset")
	}
}
