// Package reloader keeps a dependent collection scoped to the current
// selection of another entity: selecting a customer loads that customer's
// accounts, clearing the selection empties them.
package reloader

import (
	"context"
	"errors"
	"sync"

	"backoffice/internal/feed"
	"backoffice/internal/logging"
	"backoffice/internal/store"
)

// ErrSuperseded is returned by Select when a newer selection was made
// before the fetch completed.
var ErrSuperseded = store.ErrSuperseded

type State int

const (
	Idle State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

type Reloader[K any, T any] struct {
	name   string
	target *store.Collection[T]
	fetch  func(context.Context, K) ([]T, error)
	isZero func(K) bool

	mu       sync.Mutex
	selected K
	seq      uint64
	state    *feed.Feed[State]
}

// New wires target to a selection of type K. fetch loads the dependent
// entities for a key; isZero reports an empty selection.
func New[K any, T any](name string, target *store.Collection[T], fetch func(context.Context, K) ([]T, error), isZero func(K) bool) *Reloader[K, T] {
	return &Reloader[K, T]{
		name:   name,
		target: target,
		fetch:  fetch,
		isZero: isZero,
		state:  feed.NewWith(Idle),
	}
}

func (r *Reloader[K, T]) Name() string { return r.name }

// Select scopes the target collection to key. The target is cleared before
// the fetch starts. A zero key returns to Idle. When selections overlap
// only the last one publishes; earlier calls return ErrSuperseded.
func (r *Reloader[K, T]) Select(ctx context.Context, key K) error {
	return r.Begin(key)(ctx)
}

// Begin makes key the selection and clears the target, then returns the
// function that fetches and publishes. Selections are ordered by their
// Begin calls, not by when the fetches finish.
func (r *Reloader[K, T]) Begin(key K) func(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.beginLocked(key)
}

// BeginRefresh is Begin with the current selection. The returned function
// does nothing when Idle.
func (r *Reloader[K, T]) BeginRefresh() func(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isZero(r.selected) {
		return func(context.Context) error { return nil }
	}
	return r.beginLocked(r.selected)
}

func (r *Reloader[K, T]) beginLocked(key K) func(context.Context) error {
	r.seq++
	seq := r.seq
	r.selected = key
	r.target.Reset()
	if r.isZero(key) {
		r.state.Publish(Idle)
		return func(context.Context) error { return nil }
	}
	token := r.target.Begin()
	r.state.Publish(Loading)

	return func(ctx context.Context) error {
		err := r.target.LoadToken(ctx, token, func(ctx context.Context) ([]T, error) {
			return r.fetch(ctx, key)
		})

		r.mu.Lock()
		defer r.mu.Unlock()
		if seq != r.seq {
			return ErrSuperseded
		}
		r.state.Publish(Ready)
		if err != nil && !errors.Is(err, store.ErrSuperseded) {
			logging.FromContext(ctx).Warn("dependent load failed", "reloader", r.name, "error", err)
		}
		return err
	}
}

// Clear drops the selection.
func (r *Reloader[K, T]) Clear() {
	var zero K
	_ = r.Select(context.Background(), zero)
}

// Refresh reloads the current selection. It is a no-op when Idle.
func (r *Reloader[K, T]) Refresh(ctx context.Context) error {
	return r.BeginRefresh()(ctx)
}

// Selected returns the current key, false when nothing is selected.
func (r *Reloader[K, T]) Selected() (K, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isZero(r.selected) {
		var zero K
		return zero, false
	}
	return r.selected, true
}

func (r *Reloader[K, T]) State() State {
	s, _ := r.state.Last()
	return s
}

// States streams state transitions, starting with the current state.
func (r *Reloader[K, T]) States(ctx context.Context) <-chan State {
	return r.state.Subscribe(ctx)
}
