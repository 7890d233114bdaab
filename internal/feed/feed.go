// Package feed implements a single-producer, multi-consumer broadcast with
// replay of the last published value to late subscribers.
package feed

import (
	"context"
	"sync"
)

// Feed fans a value out to every subscriber. Each subscriber channel holds at
// most one pending value: a slow reader skips intermediate values but always
// receives the latest one.
type Feed[T any] struct {
	mu      sync.RWMutex
	last    T
	hasLast bool
	subs    map[chan T]struct{}
}

func New[T any]() *Feed[T] {
	return &Feed[T]{
		subs: make(map[chan T]struct{}),
	}
}

// NewWith returns a feed that replays initial until the first Publish.
func NewWith[T any](initial T) *Feed[T] {
	f := New[T]()
	f.last = initial
	f.hasLast = true
	return f
}

func (f *Feed[T]) Publish(value T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = value
	f.hasLast = true
	for ch := range f.subs {
		deliver(ch, value)
	}
}

// Subscribe registers a new consumer. The returned channel first yields the
// last published value (if any) and is closed once ctx is done.
func (f *Feed[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	if f.hasLast {
		deliver(ch, f.last)
	}
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, ch)
		close(ch)
	}()
	return ch
}

func (f *Feed[T]) Last() (T, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.last, f.hasLast
}

// deliver must be called with f.mu held; the lock makes the caller the only
// sender, so after dropping a stale value the send cannot block.
func deliver[T any](ch chan T, value T) {
	for {
		select {
		case ch <- value:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
