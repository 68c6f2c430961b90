package sender

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	s := New(Options{})
	calls := 0
	err := s.Do(context.Background(), "send.text", func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestDoRetriesTransientErrors(t *testing.T) {
	s := New(Options{MaxRetries: 2, RetryBackoff: time.Millisecond, MaxDuration: time.Second})
	calls := 0
	err := s.Do(context.Background(), "send.text", func() error {
		calls++
		if calls < 3 {
			return timeoutErr{}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestDoDoesNotRetryPermanentErrors(t *testing.T) {
	s := New(Options{MaxRetries: 3, RetryBackoff: time.Millisecond})
	calls := 0
	permanent := errors.New("telegram: bad request (400)")
	err := s.Do(context.Background(), "send.text", func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("err = %v, want permanent error", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestDoNilRun(t *testing.T) {
	s := New(Options{})
	if err := s.Do(context.Background(), "noop", nil); err == nil {
		t.Fatal("expected error for nil run")
	}
}
