package mail

import (
	"context"
	"log"
	"math"
	"sync"
	"time"
)

// RetryPolicy defines exponential backoff parameters for delivery
// attempts.
type RetryPolicy struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NextDelay returns the delay before a given attempt (1-based), clamped
// to MaxDelay.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	initial := r.InitialDelay
	if initial <= 0 {
		initial = time.Second
	}
	factor := r.BackoffFactor
	if factor <= 0 {
		factor = 2
	}

	d := time.Duration(float64(initial) * math.Pow(factor, float64(attempt-1)))
	if r.MaxDelay > 0 && d > r.MaxDelay {
		d = r.MaxDelay
	}
	if d <= 0 {
		d = time.Second
	}
	return d
}

// DefaultRetryPolicy is used when no policy is configured.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:   3,
	InitialDelay:  2 * time.Second,
	MaxDelay:      30 * time.Second,
	BackoffFactor: 2,
}

const sendTimeout = 15 * time.Second

// Outbox decouples email delivery from booking transitions. Enqueue
// never blocks and never fails: a full queue or an undeliverable
// message is logged and dropped. Booking state must never depend on the
// mail relay being up.
type Outbox struct {
	sender Sender
	retry  RetryPolicy
	queue  chan Message
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewOutbox creates an outbox with the given queue capacity and starts
// its delivery worker.
func NewOutbox(sender Sender, capacity int, retry RetryPolicy) *Outbox {
	if capacity <= 0 {
		capacity = 256
	}
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryPolicy
	}

	o := &Outbox{
		sender: sender,
		retry:  retry,
		queue:  make(chan Message, capacity),
	}

	o.wg.Add(1)
	go o.run()

	return o
}

// Enqueue queues a message for delivery. Best-effort: drops on a full
// or closed queue.
func (o *Outbox) Enqueue(msg Message) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		log.Printf("mail: outbox closed, dropping message to %s", msg.To)
		return
	}

	select {
	case o.queue <- msg:
	default:
		log.Printf("mail: outbox full, dropping message to %s", msg.To)
	}
}

// Close stops accepting messages and waits for queued ones to drain.
func (o *Outbox) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	close(o.queue)
	o.mu.Unlock()

	o.wg.Wait()
}

func (o *Outbox) run() {
	defer o.wg.Done()

	for msg := range o.queue {
		o.deliver(msg)
	}
}

func (o *Outbox) deliver(msg Message) {
	for attempt := 1; attempt <= o.retry.MaxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := o.sender.Send(ctx, msg)
		cancel()

		if err == nil {
			return
		}

		if attempt == o.retry.MaxAttempts {
			log.Printf("mail: giving up on message to %s after %d attempts: %v", msg.To, attempt, err)
			return
		}

		time.Sleep(o.retry.NextDelay(attempt))
	}
}
