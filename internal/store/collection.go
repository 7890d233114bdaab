package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"backoffice/internal/feed"
)

// ErrSuperseded is returned by Load when a newer load or a Reset was issued
// while the fetch was in flight. The result was discarded.
var ErrSuperseded = errors.New("load superseded by a newer request")

type Option func(*options)

type options struct {
	foldKeys bool
}

// CaseInsensitiveKeys makes natural key comparisons ignore case.
func CaseInsensitiveKeys() Option {
	return func(o *options) { o.foldKeys = true }
}

// Collection is the cached, observable copy of one entity kind. Reads never
// wait on a pending load; the data stream only ever carries full
// collections, loading state travels on its own stream.
type Collection[T any] struct {
	name string
	key  func(T) string
	fold bool

	mu    sync.Mutex
	items []T
	token uint64

	data    *feed.Feed[[]T]
	loading *feed.Feed[bool]
}

func NewCollection[T any](name string, key func(T) string, opts ...Option) *Collection[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[T]{
		name:    name,
		key:     key,
		fold:    o.foldKeys,
		items:   []T{},
		data:    feed.NewWith([]T{}),
		loading: feed.NewWith(false),
	}
}

func (c *Collection[T]) Name() string { return c.name }

// Load replaces the contents with the result of fetch. Only the most recently
// issued load may publish; older ones return ErrSuperseded. A failed load
// publishes an empty collection and returns the fetch error.
func (c *Collection[T]) Load(ctx context.Context, fetch func(context.Context) ([]T, error)) error {
	return c.LoadToken(ctx, c.Begin(), fetch)
}

// Begin claims a load token and raises the loading flag. Any later Begin,
// Load or Reset invalidates the token.
func (c *Collection[T]) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token++
	c.loading.Publish(true)
	return c.token
}

// LoadToken runs fetch and publishes its result only if token is still the
// current one.
func (c *Collection[T]) LoadToken(ctx context.Context, token uint64, fetch func(context.Context) ([]T, error)) error {
	items, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.token {
		return ErrSuperseded
	}
	c.loading.Publish(false)
	if err != nil {
		c.setLocked(nil)
		return fmt.Errorf("%s: load: %w", c.name, err)
	}
	c.setLocked(items)
	return nil
}

// Reset empties the collection and invalidates any in-flight load.
func (c *Collection[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token++
	c.loading.Publish(false)
	c.setLocked(nil)
}

// Snapshot returns a copy of the last published collection.
func (c *Collection[T]) Snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clone(c.items)
}

func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Observe streams the collection, starting with the current snapshot.
// Published slices are shared between subscribers and must not be modified.
func (c *Collection[T]) Observe(ctx context.Context) <-chan []T {
	return c.data.Subscribe(ctx)
}

func (c *Collection[T]) Loading(ctx context.Context) <-chan bool {
	return c.loading.Subscribe(ctx)
}

func (c *Collection[T]) IsLoading() bool {
	v, _ := c.loading.Last()
	return v
}

// Find filters the current snapshot without touching the network.
func (c *Collection[T]) Find(pred func(T) bool) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []T{}
	for _, item := range c.items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// First returns the first item matching pred.
func (c *Collection[T]) First(pred func(T) bool) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(key); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) Append(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]T, 0, len(c.items)+1)
	next = append(next, c.items...)
	c.setLocked(append(next, item))
}

// Replace swaps the entry whose natural key equals key. Nothing is inserted
// when the key is absent; the return value reports whether a swap happened.
func (c *Collection[T]) Replace(key string, item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(key)
	if i < 0 {
		return false
	}
	next := clone(c.items)
	next[i] = item
	c.setLocked(next)
	return true
}

// Remove drops every entry whose natural key equals key.
func (c *Collection[T]) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if c.sameKey(c.key(item), key) {
			continue
		}
		next = append(next, item)
	}
	if len(next) == len(c.items) {
		return false
	}
	c.setLocked(next)
	return true
}

func (c *Collection[T]) indexLocked(key string) int {
	for i, item := range c.items {
		if c.sameKey(c.key(item), key) {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) sameKey(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	if c.fold {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// setLocked must be called with c.mu held so publish order follows state order.
func (c *Collection[T]) setLocked(items []T) {
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.data.Publish(clone(items))
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
