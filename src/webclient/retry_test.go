package webclient

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoWithRetrySucceedsFirstTry(t *testing.T) {
	calls := 0
	status, body, err := DoWithRetry(context.Background(), 3, time.Millisecond, func() (int, []byte, error) {
		calls++
		return 200, []byte("ok"), nil
	})
	if err != nil || status != 200 || string(body) != "ok" {
		t.Fatalf("unexpected result: %d %q %v", status, body, err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestDoWithRetryRetriesTransient(t *testing.T) {
	statuses := []int{429, 500, 200}
	calls := 0
	status, _, err := DoWithRetry(context.Background(), 3, time.Millisecond, func() (int, []byte, error) {
		s := statuses[calls]
		calls++
		return s, nil, nil
	})
	if err != nil || status != 200 {
		t.Fatalf("unexpected result: %d %v", status, err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDoWithRetryDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	status, _, err := DoWithRetry(context.Background(), 3, time.Millisecond, func() (int, []byte, error) {
		calls++
		return 400, nil, nil
	})
	if err != nil || status != 400 {
		t.Fatalf("unexpected result: %d %v", status, err)
	}
	if calls != 1 {
		t.Fatalf("400 must not retry, got %d calls", calls)
	}
}

func TestDoWithRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	wantErr := errors.New("dial refused")
	_, _, err := DoWithRetry(context.Background(), 3, time.Millisecond, func() (int, []byte, error) {
		calls++
		return 0, nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected last error surfaced, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDoWithRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	_, _, err := DoWithRetry(ctx, 3, time.Minute, func() (int, []byte, error) {
		return 500, nil, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
