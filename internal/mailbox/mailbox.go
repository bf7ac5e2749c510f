package mailbox

import "context"

// Mailbox is a single-slot buffer where the latest value always wins.
// It is NOT a queue. It holds at most one pending value.
type Mailbox[T any] struct {
	slot chan T
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{slot: make(chan T, 1)}
}

// Put stores v, replacing any pending value. It never blocks.
func (m *Mailbox[T]) Put(v T) {
	for {
		select {
		case m.slot <- v:
			return
		default:
		}
		// slot full: drop the stale value and try again
		select {
		case <-m.slot:
		default:
		}
	}
}

// Take blocks until a value is available or ctx is done.
func (m *Mailbox[T]) Take(ctx context.Context) (T, bool) {
	select {
	case v := <-m.slot:
		return v, true
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}

// HasPending reports whether a value is waiting.
func (m *Mailbox[T]) HasPending() bool {
	return len(m.slot) > 0
}
