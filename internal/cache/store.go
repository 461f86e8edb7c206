package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type entry[V any] struct {
	status Status
	future *Future[V]
}

// entryStore holds the single live entry per key.
//
// Pending entries never expire. Settled entries expire after the configured
// TTL, if any.
type entryStore[V any] struct {
	cache   *ttlcache.Cache[string, *entry[V]]
	ttl     time.Duration
	started bool
}

func newEntryStore[V any](ttl time.Duration) *entryStore[V] {
	options := []ttlcache.Option[string, *entry[V]]{
		ttlcache.WithDisableTouchOnHit[string, *entry[V]](),
	}
	if ttl > 0 {
		options = append(options, ttlcache.WithTTL[string, *entry[V]](ttl))
	}

	return &entryStore[V]{
		cache: ttlcache.New[string, *entry[V]](options...),
		ttl:   ttl,
	}
}

func (s *entryStore[V]) get(key string) *entry[V] {
	item := s.cache.Get(key)
	if item == nil {
		return nil
	}
	return item.Value()
}

func (s *entryStore[V]) setPending(key string, e *entry[V]) {
	// Drop an expired item the janitor has not collected yet, so its later
	// collection cannot remove the new entry
	s.cache.Delete(key)
	s.cache.Set(key, e, ttlcache.NoTTL)
}

func (s *entryStore[V]) setSettled(key string, e *entry[V]) {
	s.cache.Set(key, e, ttlcache.DefaultTTL)
}

func (s *entryStore[V]) delete(key string) {
	s.cache.Delete(key)
}

func (s *entryStore[V]) deleteAll() {
	s.cache.DeleteAll()
}

func (s *entryStore[V]) keys() []string {
	return s.cache.Keys()
}

func (s *entryStore[V]) len() int {
	return s.cache.Len()
}

// onExpired registers fn to be called for every entry removed by expiry.
//
// fn runs on its own goroutine so that it may take locks that are also held
// while calling into the store.
func (s *entryStore[V]) onExpired(fn func(key string, e *entry[V])) func() {
	return s.cache.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, *entry[V]]) {
		if reason != ttlcache.EvictionReasonExpired {
			return
		}
		go fn(item.Key(), item.Value())
	})
}

// start runs the expiry janitor when a TTL is configured
func (s *entryStore[V]) start() {
	if s.ttl <= 0 || s.started {
		return
	}
	s.started = true
	go s.cache.Start()
}

func (s *entryStore[V]) stop() {
	if !s.started {
		return
	}
	s.started = false
	s.cache.Stop()
}
