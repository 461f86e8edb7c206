package cache

import "context"

// Future is the shared handle of one producer invocation.
//
// Every reader of a key observes the same Future until the key is evicted.
type Future[V any] struct {
	done  chan struct{}
	value V
	err   error
}

func newFuture[V any]() *Future[V] {
	return &Future[V]{done: make(chan struct{})}
}

// Done is closed once the producer has settled
func (f *Future[V]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the producer settles or ctx is done.
//
// Giving up on the wait does not cancel the producer.
func (f *Future[V]) Wait(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var empty V
		return empty, ctx.Err()
	}
}

func (f *Future[V]) settle(value V, err error) {
	f.value = value
	f.err = err
	close(f.done)
}
