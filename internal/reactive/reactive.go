// Package reactive provides the live-view primitive behind the repository's
// observable collections: a change-signal hub per table and query-backed
// streams that re-evaluate on every signal, delivering values with
// replay-latest semantics (a slow subscriber sees the newest state, not a
// backlog of intermediate ones).
package reactive

import "sync"

// Hub broadcasts change signals to subscribers. Signals are coalesced: a
// subscriber that has a signal pending does not accumulate more.
type Hub struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan struct{})}
}

// Notify signals every subscriber that the underlying data changed.
func (h *Hub) Notify() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe registers a signal channel. The returned cancel func must be
// called exactly once to release the subscription.
func (h *Hub) Subscribe() (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan struct{}, 1)
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// Stream delivers successive values of a watched query on C. C is closed
// after Close.
type Stream[T any] struct {
	C <-chan T

	cancel func()
	once   sync.Once
}

// Close tears down the subscription. Safe to call more than once.
func (s *Stream[T]) Close() {
	s.once.Do(s.cancel)
}

// Watch evaluates query once immediately and again after every hub signal,
// publishing each result on the stream. Query errors are reported to onErr
// (may be nil) and the emission is skipped, leaving subscribers on the last
// good value.
func Watch[T any](hub *Hub, query func() (T, error), onErr func(error)) *Stream[T] {
	sig, unsub := hub.Subscribe()
	out := make(chan T, 1)

	emit := func() {
		v, err := query()
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		conflate(out, v)
	}

	go func() {
		defer close(out)
		emit()
		for range sig {
			emit()
		}
	}()

	return &Stream[T]{C: out, cancel: unsub}
}

// conflate replaces a pending unread value so the channel always holds the
// newest state.
func conflate[T any](out chan T, v T) {
	for {
		select {
		case out <- v:
			return
		default:
			select {
			case <-out:
			default:
			}
		}
	}
}
