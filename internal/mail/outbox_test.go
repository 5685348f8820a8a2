package mail

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeSender records deliveries and can fail a fixed number of times.
type fakeSender struct {
	mu        sync.Mutex
	sent      []Message
	failFirst int
	attempts  int
}

func (s *fakeSender) Send(ctx context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if s.attempts <= s.failFirst {
		return errors.New("relay unavailable")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *fakeSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func fastRetry(maxAttempts int) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   maxAttempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2,
	}
}

func TestOutbox_DeliversQueuedMessages(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	outbox := NewOutbox(sender, 8, fastRetry(3))

	outbox.Enqueue(Message{To: "a@campus.edu", Subject: "one"})
	outbox.Enqueue(Message{To: "b@campus.edu", Subject: "two"})
	outbox.Close()

	if got := sender.sentCount(); got != 2 {
		t.Errorf("expected 2 deliveries, got %d", got)
	}
}

func TestOutbox_RetriesTransientFailures(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{failFirst: 2}
	outbox := NewOutbox(sender, 8, fastRetry(3))

	outbox.Enqueue(Message{To: "a@campus.edu", Subject: "flaky"})
	outbox.Close()

	if got := sender.sentCount(); got != 1 {
		t.Errorf("expected the message delivered on retry, got %d", got)
	}
	if sender.attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", sender.attempts)
	}
}

func TestOutbox_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{failFirst: 10}
	outbox := NewOutbox(sender, 8, fastRetry(2))

	outbox.Enqueue(Message{To: "a@campus.edu", Subject: "doomed"})
	outbox.Close()

	if got := sender.sentCount(); got != 0 {
		t.Errorf("expected no deliveries, got %d", got)
	}
	if sender.attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", sender.attempts)
	}
}

func TestOutbox_EnqueueAfterCloseIsDropped(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	outbox := NewOutbox(sender, 8, fastRetry(1))
	outbox.Close()

	// Must not panic or block.
	outbox.Enqueue(Message{To: "late@campus.edu", Subject: "late"})

	if got := sender.sentCount(); got != 0 {
		t.Errorf("expected no deliveries, got %d", got)
	}
}

func TestRetryPolicy_NextDelayClamped(t *testing.T) {
	t.Parallel()

	policy := RetryPolicy{
		MaxAttempts:   5,
		InitialDelay:  time.Second,
		MaxDelay:      4 * time.Second,
		BackoffFactor: 2,
	}

	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 4 * time.Second}
	for i, w := range want {
		if got := policy.NextDelay(i + 1); got != w {
			t.Errorf("NextDelay(%d) = %v, want %v", i+1, got, w)
		}
	}
}
