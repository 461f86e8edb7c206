package cache

import "errors"

var (
	// Returned by Result.Unwrap while the producer is still running
	ErrPending = errors.New("value is pending")

	// Returned by Value when the key has not resolved
	ErrNotResolved = errors.New("value is not resolved")

	// Wrapped into the stored error when a producer panics
	ErrProducerPanic = errors.New("producer panicked")

	// Panicked with when an argument has no structural key and no key func is set
	ErrUnkeyable = errors.New("argument has no structural key")
)
