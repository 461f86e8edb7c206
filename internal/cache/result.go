package cache

import (
	"context"
	"fmt"
)

// Result is the outcome of a non-suspending Read.
//
// A pending result tells the caller to suspend until Done is closed and then
// read again. A failed result carries the producer's error verbatim.
type Result[V any] struct {
	status Status
	value  V
	err    error
	future *Future[V]
}

func (r Result[V]) Status() Status {
	return r.status
}

func (r Result[V]) Ready() bool {
	return r.status == StatusResolved
}

func (r Result[V]) Pending() bool {
	return r.status == StatusPending
}

func (r Result[V]) Failed() bool {
	return r.status == StatusRejected
}

func (r Result[V]) Value() V {
	return r.value
}

func (r Result[V]) Err() error {
	return r.err
}

// Done is closed when the Future backing this result has settled
func (r Result[V]) Done() <-chan struct{} {
	return r.future.Done()
}

func (r Result[V]) Future() *Future[V] {
	return r.future
}

// Unwrap returns the value or error, with ErrPending for a pending result
func (r Result[V]) Unwrap() (V, error) {
	switch r.status {
	case StatusResolved:
		return r.value, nil
	case StatusRejected:
		var empty V
		return empty, r.err
	}
	var empty V
	return empty, ErrPending
}

// Render drives a suspending read to completion the way a render scheduler
// would: render runs, and every time it reports pending we wait for the
// shared future and run it again.
func Render[V any](ctx context.Context, render func() Result[V]) (V, error) {
	for {
		result := render()
		switch result.status {
		case StatusResolved:
			return result.value, nil
		case StatusRejected:
			var empty V
			return empty, result.err
		case StatusPending:
			select {
			case <-result.Done():
			case <-ctx.Done():
				var empty V
				return empty, ctx.Err()
			}
		default:
			var empty V
			return empty, fmt.Errorf("unexpected status from render: %s", result.status)
		}
	}
}
