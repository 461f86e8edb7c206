package cache

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Producer computes the value for one argument tuple.
//
// The context carries the values of the reader that triggered the call but is
// never cancelled by the cache.
type Producer[A any, V any] func(ctx context.Context, args A) (V, error)

// Cache is a keyed store of in-flight and settled producer invocations.
//
// At most one producer invocation runs per key. Every reader of a key shares
// its outcome until the key is evicted, and a rejection is replayed to every
// reader without retrying.
type Cache[A any, V any] struct {
	producer Producer[A, V]
	cfg      config[A]

	mu       sync.Mutex
	store    *entryStore[V]
	notifier *notifier

	stopExpiry func()
}

// New builds a cache around producer.
//
// It panics when A can hold values without a structural key, such as
// channels or funcs, unless WithKeyFunc is given.
func New[A any, V any](producer Producer[A, V], opts ...Option[A]) *Cache[A, V] {
	if producer == nil {
		panic("cache: nil producer")
	}

	cfg := defaultConfig[A]()
	for _, opt := range opts {
		opt(&cfg)
	}

	if !cfg.customKey {
		if err := checkKeyable(reflect.TypeFor[A]()); err != nil {
			panic(fmt.Errorf("cache: %w, use WithKeyFunc", err))
		}
	}

	c := &Cache[A, V]{
		producer: producer,
		cfg:      cfg,
		store:    newEntryStore[V](cfg.settledTTL),
		notifier: newNotifier(),
	}

	c.stopExpiry = c.store.onExpired(c.expired)
	c.store.start()

	return c
}

// Read looks up args without blocking.
//
// A missing key starts the producer and reports pending, as does a key whose
// producer is still running. A settled key reports its value or error.
func (c *Cache[A, V]) Read(ctx context.Context, args A) Result[V] {
	key := c.cfg.keyFunc(args)

	c.mu.Lock()
	e, created := c.getOrCreate(ctx, key, args)
	result := Result[V]{status: e.status, future: e.future}
	if e.status.Settled() {
		result.value = e.future.value
		result.err = e.future.err
	}
	c.mu.Unlock()
	c.drain()

	recordRead(ctx, c.cfg.name, result.status, created)

	return result
}

// FetchAsync returns the shared future for args, starting the producer if needed
func (c *Cache[A, V]) FetchAsync(ctx context.Context, args A) *Future[V] {
	key := c.cfg.keyFunc(args)

	c.mu.Lock()
	e, created := c.getOrCreate(ctx, key, args)
	status := e.status
	c.mu.Unlock()
	c.drain()

	recordRead(ctx, c.cfg.name, status, created)

	return e.future
}

// Fetch blocks until the value for args is settled or ctx is done
func (c *Cache[A, V]) Fetch(ctx context.Context, args A) (V, error) {
	return c.FetchAsync(ctx, args).Wait(ctx)
}

func (c *Cache[A, V]) Status(args A) Status {
	key := c.cfg.keyFunc(args)

	c.mu.Lock()
	status := StatusNotFound
	if e := c.lookup(key); e != nil {
		status = e.status
	}
	c.mu.Unlock()
	c.drain()

	return status
}

// Peek returns the resolved value for args without starting the producer
func (c *Cache[A, V]) Peek(args A) (V, bool) {
	key := c.cfg.keyFunc(args)

	c.mu.Lock()
	var value V
	resolved := false
	if e := c.lookup(key); e != nil && e.status == StatusResolved {
		value = e.future.value
		resolved = true
	}
	c.mu.Unlock()
	c.drain()

	return value, resolved
}

// Value returns the resolved value for args.
//
// Meant for producers that depend on another cache whose value is known to
// be resolved already. A rejected key returns its stored error, any other
// status wraps ErrNotResolved.
func (c *Cache[A, V]) Value(args A) (V, error) {
	key := c.cfg.keyFunc(args)

	c.mu.Lock()
	status := StatusNotFound
	var value V
	var err error
	if e := c.lookup(key); e != nil {
		status = e.status
		if status.Settled() {
			value = e.future.value
			err = e.future.err
		}
	}
	c.mu.Unlock()
	c.drain()

	switch status {
	case StatusResolved:
		return value, nil
	case StatusRejected:
		var empty V
		return empty, err
	}
	var empty V
	return empty, fmt.Errorf("%w: %s is %s", ErrNotResolved, key, status)
}

// lookup returns the live entry for key without creating one.
//
// An entry that expired but was not yet collected is announced as not-found
// here, so the status a subscriber sees matches what readers observe.
//
// Must be called with c.mu held.
func (c *Cache[A, V]) lookup(key string) *entry[V] {
	e := c.store.get(key)
	if e == nil && c.notifier.published[key].Settled() {
		c.notifier.transition(key, StatusNotFound)
	}
	return e
}

// Subscribe calls callback on every status transition of args until the
// returned function is called
func (c *Cache[A, V]) Subscribe(args A, callback func(Status)) func() {
	key := c.cfg.keyFunc(args)

	c.mu.Lock()
	s := c.notifier.subscribe(key, callback)
	c.mu.Unlock()

	return func() {
		if !s.active.Swap(false) {
			return
		}
		c.mu.Lock()
		c.notifier.unsubscribe(key, s)
		c.mu.Unlock()
	}
}

// Evict removes the entry for args, reporting whether there was one.
//
// A running producer is not cancelled, its outcome is discarded.
func (c *Cache[A, V]) Evict(args A) bool {
	key := c.cfg.keyFunc(args)

	c.mu.Lock()
	existed := c.store.get(key) != nil
	c.store.delete(key)
	c.notifier.transition(key, StatusNotFound)
	c.mu.Unlock()
	c.drain()

	if existed {
		recordEviction(context.Background(), c.cfg.name, "evict", 1)
	}
	return existed
}

func (c *Cache[A, V]) EvictAll() {
	c.mu.Lock()
	count := c.store.len()
	c.store.deleteAll()
	for _, key := range c.notifier.publishedKeys() {
		c.notifier.transition(key, StatusNotFound)
	}
	c.mu.Unlock()
	c.drain()

	recordEviction(context.Background(), c.cfg.name, "evict_all", count)
}

// Keys returns the keys that currently have an entry
func (c *Cache[A, V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.keys()
}

func (c *Cache[A, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.len()
}

// Close stops the expiry janitor. Entries stay readable.
func (c *Cache[A, V]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopExpiry()
	c.store.stop()
}

func (c *Cache[A, V]) expired(key string, e *entry[V]) {
	c.mu.Lock()
	// A fresh entry took its place before we got here and has announced itself
	replaced := c.store.get(key) != nil
	if !replaced {
		c.notifier.transition(key, StatusNotFound)
	}
	c.mu.Unlock()
	c.drain()

	if !replaced {
		recordEviction(context.Background(), c.cfg.name, "expired", 1)
	}
}

// drain delivers queued status events outside the lock.
//
// Only one goroutine drains at a time so events reach subscribers in the
// order the transitions happened. Events queued by a callback are delivered
// after it returns.
func (c *Cache[A, V]) drain() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.notifier.draining {
		return
	}
	c.notifier.draining = true
	defer func() {
		c.notifier.draining = false
	}()

	for {
		event, ok := c.notifier.pop()
		if !ok {
			return
		}
		c.deliverUnlocked(event)
	}
}

func (c *Cache[A, V]) deliverUnlocked(event statusEvent) {
	c.mu.Unlock()
	defer c.mu.Lock()

	event.deliver()
}
