package cache

import (
	"context"
	"fmt"

	"github.com/Amund211/suspense/internal/logging"
)

// getOrCreate returns the live entry for key, creating it and starting the
// producer when there is none.
//
// Must be called with c.mu held.
func (c *Cache[A, V]) getOrCreate(ctx context.Context, key string, args A) (*entry[V], bool) {
	if e := c.store.get(key); e != nil {
		return e, false
	}

	e := &entry[V]{status: StatusPending, future: newFuture[V]()}
	c.store.setPending(key, e)
	c.notifier.transition(key, StatusPending)

	logging.FromContext(ctx).DebugContext(ctx, "Starting producer", "cache", c.cfg.name, "key", key)

	// Readers may give up on their context, the shared producer must not
	go c.produce(context.WithoutCancel(ctx), key, args, e)

	return e, true
}

func (c *Cache[A, V]) produce(ctx context.Context, key string, args A, e *entry[V]) {
	value, err := c.invoke(ctx, args)
	c.settle(ctx, key, e, value, err)
}

func (c *Cache[A, V]) invoke(ctx context.Context, args A) (value V, err error) {
	defer func() {
		if r := recover(); r != nil {
			var empty V
			value = empty
			err = fmt.Errorf("%w: %v", ErrProducerPanic, r)
		}
	}()

	return c.producer(ctx, args)
}

func (c *Cache[A, V]) settle(ctx context.Context, key string, e *entry[V], value V, err error) {
	c.mu.Lock()

	status := StatusResolved
	if err != nil {
		status = StatusRejected
	}
	e.status = status
	e.future.settle(value, err)

	// The entry was evicted while the producer ran. Waiters that already hold
	// its future still get the outcome, the cache does not.
	discarded := c.store.get(key) != e
	if !discarded {
		c.store.setSettled(key, e)
		c.notifier.transition(key, status)
	}

	c.mu.Unlock()
	c.drain()

	recordSettled(ctx, c.cfg.name, status, discarded)
	logging.FromContext(ctx).DebugContext(ctx, "Producer settled", "cache", c.cfg.name, "key", key, "status", status.String(), "discarded", discarded)
}
