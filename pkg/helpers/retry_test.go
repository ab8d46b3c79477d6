package helpers

import (
	"context"
	"errors"
	"testing"
)

func TestRetryRead_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	got, err := RetryRead(context.Background(), 3, func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("flaky")
		}
		return "ok", nil
	})
	if err != nil || got != "ok" {
		t.Fatalf("got %q err %v", got, err)
	}
	if calls != 3 {
		t.Fatalf("calls: got %d want 3", calls)
	}
}

func TestRetryRead_StopsOnPermanent(t *testing.T) {
	sentinel := errors.New("not found")
	calls := 0
	_, err := RetryRead(context.Background(), 3, func() (int, error) {
		calls++
		return 0, Permanent(sentinel)
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls: got %d want 1", calls)
	}
}

func TestRetryRead_BoundedTries(t *testing.T) {
	calls := 0
	_, err := RetryRead(context.Background(), 2, func() (int, error) {
		calls++
		return 0, errors.New("down")
	})
	if err == nil || calls != 2 {
		t.Fatalf("calls %d err %v", calls, err)
	}
}
