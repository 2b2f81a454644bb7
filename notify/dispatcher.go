// Package notify delivers best-effort user notifications for moderation
// decisions. Events are queued after the ledger write commits and delivered
// by a background worker with per-sender retry; a failure here can never
// roll back or block the settlement that triggered it.
package notify

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	EventDepositApproved    = "deposit_approved"
	EventDepositRejected    = "deposit_rejected"
	EventWithdrawalApproved = "withdrawal_approved"
	EventWithdrawalRejected = "withdrawal_rejected"
)

type Event struct {
	UserID uint
	Type   string
	Amount float64
}

// Sender is one delivery channel (email, web push).
type Sender interface {
	Name() string
	Send(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	ch      chan Event
	senders []Sender
	retries int
	backoff time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
}

type Option func(*Dispatcher)

func WithRetries(n int) Option {
	return func(d *Dispatcher) { d.retries = n }
}

func WithBackoff(b time.Duration) Option {
	return func(d *Dispatcher) { d.backoff = b }
}

func WithQueueSize(n int) Option {
	return func(d *Dispatcher) { d.ch = make(chan Event, n) }
}

func NewDispatcher(senders []Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		ch:      make(chan Event, 64),
		senders: senders,
		retries: 3,
		backoff: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the delivery worker. The worker drains the queue before
// returning when Close is called.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for ev := range d.ch {
			d.deliver(ev)
		}
	}()
}

// Enqueue hands an event to the worker without ever blocking the caller.
// When the queue is full the event is dropped with a log line.
func (d *Dispatcher) Enqueue(ev Event) {
	select {
	case d.ch <- ev:
	default:
		log.Printf("[notify] queue full, dropping %s for user %d", ev.Type, ev.UserID)
	}
}

// Close stops accepting events and waits for in-flight deliveries.
func (d *Dispatcher) Close() {
	d.stopOnce.Do(func() {
		close(d.ch)
	})
	d.wg.Wait()
}

func (d *Dispatcher) deliver(ev Event) {
	for _, s := range d.senders {
		backoff := d.backoff
		var err error
		for attempt := 0; attempt <= d.retries; attempt++ {
			if attempt > 0 {
				time.Sleep(backoff)
				backoff *= 2
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err = s.Send(ctx, ev)
			cancel()
			if err == nil {
				break
			}
		}
		if err != nil {
			log.Printf("[notify] %s delivery failed for user %d (%s): %v", s.Name(), ev.UserID, ev.Type, err)
		}
	}
}

var (
	defaultMu         sync.RWMutex
	defaultDispatcher *Dispatcher
)

// SetDefault installs the process-wide dispatcher used by Dispatch.
func SetDefault(d *Dispatcher) {
	defaultMu.Lock()
	defaultDispatcher = d
	defaultMu.Unlock()
}

// Dispatch enqueues on the default dispatcher; a no-op when none is
// configured (tests, stripped-down deployments).
func Dispatch(ev Event) {
	defaultMu.RLock()
	d := defaultDispatcher
	defaultMu.RUnlock()
	if d == nil {
		return
	}
	d.Enqueue(ev)
}
