package reactive

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvTimeout[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for stream value")
		panic("unreachable")
	}
}

func TestWatch_EmitsInitialValue(t *testing.T) {
	hub := NewHub()
	stream := Watch(hub, func() (int, error) { return 42, nil }, nil)
	defer stream.Close()

	assert.Equal(t, 42, recvTimeout(t, stream.C))
}

func TestWatch_ReEmitsOnNotify(t *testing.T) {
	hub := NewHub()
	var counter atomic.Int64
	stream := Watch(hub, func() (int64, error) { return counter.Add(1), nil }, nil)
	defer stream.Close()

	assert.Equal(t, int64(1), recvTimeout(t, stream.C))

	hub.Notify()
	assert.Equal(t, int64(2), recvTimeout(t, stream.C))
}

func TestWatch_ReplayLatest(t *testing.T) {
	hub := NewHub()
	var counter atomic.Int64
	stream := Watch(hub, func() (int64, error) { return counter.Add(1), nil }, nil)
	defer stream.Close()

	// Do not read; let several emissions conflate.
	hub.Notify()
	for counter.Load() < 2 {
		time.Sleep(5 * time.Millisecond)
	}
	hub.Notify()
	for counter.Load() < 3 {
		time.Sleep(5 * time.Millisecond)
	}
	// Give the last emission time to land in the buffer.
	time.Sleep(50 * time.Millisecond)

	// A late reader sees the newest value, not the backlog.
	v := recvTimeout(t, stream.C)
	assert.Equal(t, int64(3), v)
}

func TestWatch_ErrorSkipsEmission(t *testing.T) {
	hub := NewHub()
	fail := atomic.Bool{}
	var errCount atomic.Int64
	stream := Watch(hub, func() (string, error) {
		if fail.Load() {
			return "", assert.AnError
		}
		return "good", nil
	}, func(error) { errCount.Add(1) })
	defer stream.Close()

	assert.Equal(t, "good", recvTimeout(t, stream.C))

	fail.Store(true)
	hub.Notify()
	for errCount.Load() == 0 {
		time.Sleep(5 * time.Millisecond)
	}

	// No bad value was delivered.
	select {
	case v := <-stream.C:
		t.Fatalf("unexpected emission %q after query error", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStream_CloseStopsEmissions(t *testing.T) {
	hub := NewHub()
	stream := Watch(hub, func() (int, error) { return 1, nil }, nil)

	recvTimeout(t, stream.C)
	stream.Close()
	stream.Close() // idempotent

	// After close the channel is drained and closed.
	for {
		_, ok := <-stream.C
		if !ok {
			break
		}
	}
	hub.Notify() // must not panic with the subscriber gone
}

func TestHub_MultipleSubscribers(t *testing.T) {
	hub := NewHub()
	s1 := Watch(hub, func() (int, error) { return 1, nil }, nil)
	s2 := Watch(hub, func() (int, error) { return 2, nil }, nil)
	defer s1.Close()
	defer s2.Close()

	require.Equal(t, 1, recvTimeout(t, s1.C))
	require.Equal(t, 2, recvTimeout(t, s2.C))

	hub.Notify()
	require.Equal(t, 1, recvTimeout(t, s1.C))
	require.Equal(t, 2, recvTimeout(t, s2.C))
}
