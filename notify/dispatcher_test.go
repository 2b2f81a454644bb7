package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu       sync.Mutex
	name     string
	failures int // fail this many attempts before succeeding
	attempts int
	events   []Event
}

func (s *recordingSender) Name() string { return s.name }

func (s *recordingSender) Send(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if s.attempts <= s.failures {
		return errors.New("transient failure")
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingSender) delivered() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func TestDispatcher_DeliversToAllSenders(t *testing.T) {
	a := &recordingSender{name: "a"}
	b := &recordingSender{name: "b"}
	d := NewDispatcher([]Sender{a, b}, WithBackoff(time.Millisecond))
	d.Start()

	ev := Event{UserID: 7, Type: EventDepositApproved, Amount: 50}
	d.Enqueue(ev)
	d.Close()

	require.Equal(t, []Event{ev}, a.delivered())
	require.Equal(t, []Event{ev}, b.delivered())
}

func TestDispatcher_RetriesTransientFailures(t *testing.T) {
	s := &recordingSender{name: "flaky", failures: 2}
	d := NewDispatcher([]Sender{s}, WithRetries(3), WithBackoff(time.Millisecond))
	d.Start()

	d.Enqueue(Event{UserID: 1, Type: EventWithdrawalRejected, Amount: 20})
	d.Close()

	require.Len(t, s.delivered(), 1)
	require.Equal(t, 3, s.attempts)
}

func TestDispatcher_GivesUpAfterRetries(t *testing.T) {
	s := &recordingSender{name: "dead", failures: 100}
	d := NewDispatcher([]Sender{s}, WithRetries(2), WithBackoff(time.Millisecond))
	d.Start()

	d.Enqueue(Event{UserID: 1, Type: EventDepositRejected, Amount: 5})
	d.Close()

	// Failure is logged, never surfaced; nothing delivered.
	require.Empty(t, s.delivered())
	require.Equal(t, 3, s.attempts) // initial attempt + 2 retries
}

func TestDispatcher_EnqueueNeverBlocks(t *testing.T) {
	// No worker running and a tiny queue: extra events must be dropped,
	// not block the settlement path.
	s := &recordingSender{name: "slow"}
	d := NewDispatcher([]Sender{s}, WithQueueSize(1))

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Enqueue(Event{UserID: uint(i), Type: EventDepositApproved, Amount: 1})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func TestDispatch_NoDefaultIsNoop(t *testing.T) {
	SetDefault(nil)
	// Must not panic.
	Dispatch(Event{UserID: 1, Type: EventDepositApproved, Amount: 1})
}
