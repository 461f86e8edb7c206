package cache

import "time"

type config[A any] struct {
	name       string
	keyFunc    func(A) string
	customKey  bool
	settledTTL time.Duration
}

func defaultConfig[A any]() config[A] {
	return config[A]{
		name: "default",
		keyFunc: func(args A) string {
			return Key(args)
		},
	}
}

// Option configures a Cache
type Option[A any] func(*config[A])

// WithKeyFunc replaces the structural key derivation.
//
// Required when arguments contain channels or funcs, or when they should
// compare by something other than their content.
func WithKeyFunc[A any](keyFunc func(A) string) Option[A] {
	return func(c *config[A]) {
		if keyFunc != nil {
			c.keyFunc = keyFunc
			c.customKey = true
		}
	}
}

// WithSettledTTL evicts resolved and rejected entries after ttl.
// Pending entries never expire.
func WithSettledTTL[A any](ttl time.Duration) Option[A] {
	return func(c *config[A]) {
		c.settledTTL = ttl
	}
}

// WithName labels the cache in logs and metrics
func WithName[A any](name string) Option[A] {
	return func(c *config[A]) {
		if name != "" {
			c.name = name
		}
	}
}
