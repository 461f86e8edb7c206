package cache

import (
	"slices"
	"sync/atomic"
)

type subscriber struct {
	callback func(Status)
	active   atomic.Bool
}

type statusEvent struct {
	status      Status
	subscribers []*subscriber
}

func (e statusEvent) deliver() {
	for _, s := range e.subscribers {
		// Unsubscribed after the event was queued
		if !s.active.Load() {
			continue
		}
		s.callback(e.status)
	}
}

// notifier tracks subscribers and the last status announced for each key.
//
// Not safe for concurrent use; the owning Cache serializes access.
type notifier struct {
	subscribers map[string][]*subscriber
	published   map[string]Status
	queue       []statusEvent
	draining    bool
}

func newNotifier() *notifier {
	return &notifier{
		subscribers: make(map[string][]*subscriber),
		published:   make(map[string]Status),
	}
}

func (n *notifier) subscribe(key string, callback func(Status)) *subscriber {
	s := &subscriber{callback: callback}
	s.active.Store(true)
	n.subscribers[key] = append(n.subscribers[key], s)
	return s
}

func (n *notifier) unsubscribe(key string, s *subscriber) {
	remaining := slices.DeleteFunc(n.subscribers[key], func(other *subscriber) bool {
		return other == s
	})
	if len(remaining) == 0 {
		delete(n.subscribers, key)
		return
	}
	n.subscribers[key] = remaining
}

// transition announces status for key unless it is already the announced one.
//
// A key that goes straight from settled to pending (an expired entry read
// before the janitor collected it) is announced as not-found first, so
// subscribers always see not-found -> pending -> settled.
func (n *notifier) transition(key string, status Status) {
	previous := n.published[key]
	if previous == status {
		return
	}

	if status == StatusPending && previous.Settled() {
		n.enqueue(key, StatusNotFound)
	}

	if status == StatusNotFound {
		delete(n.published, key)
	} else {
		n.published[key] = status
	}

	n.enqueue(key, status)
}

func (n *notifier) enqueue(key string, status Status) {
	subscribers := n.subscribers[key]
	if len(subscribers) == 0 {
		return
	}
	n.queue = append(n.queue, statusEvent{
		status:      status,
		subscribers: slices.Clone(subscribers),
	})
}

func (n *notifier) pop() (statusEvent, bool) {
	if len(n.queue) == 0 {
		return statusEvent{}, false
	}
	event := n.queue[0]
	n.queue[0] = statusEvent{}
	n.queue = n.queue[1:]
	return event, true
}

func (n *notifier) publishedKeys() []string {
	keys := make([]string, 0, len(n.published))
	for key := range n.published {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
