package app

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/Amund211/suspense/internal/cache"
)

type statusSource interface {
	Status(id int) cache.Status
	Subscribe(id int, callback func(cache.Status)) func()
}

// StatusBoard follows the status of a fixed set of profiles
type StatusBoard struct {
	ids []int

	mu           sync.Mutex
	latest       map[int]cache.Status
	transitions  map[int][]cache.Status
	unsubscribes []func()
}

func NewStatusBoard(profiles statusSource, ids []int) *StatusBoard {
	board := &StatusBoard{
		ids:          slices.Clone(ids),
		latest:       make(map[int]cache.Status, len(ids)),
		transitions:  make(map[int][]cache.Status, len(ids)),
		unsubscribes: make([]func(), 0, len(ids)),
	}

	for _, id := range board.ids {
		unsubscribe := profiles.Subscribe(id, func(status cache.Status) {
			board.mu.Lock()
			defer board.mu.Unlock()

			board.latest[id] = status
			board.transitions[id] = append(board.transitions[id], status)
		})
		board.unsubscribes = append(board.unsubscribes, unsubscribe)

		// Subscribing does not report the current status. Anything delivered
		// since subscribing is newer than this.
		current := profiles.Status(id)
		board.mu.Lock()
		if _, ok := board.latest[id]; !ok {
			board.latest[id] = current
		}
		board.mu.Unlock()
	}

	return board
}

func (b *StatusBoard) Latest(id int) cache.Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.latest[id]
}

// Transitions returns every status delivered for id since the board was created
func (b *StatusBoard) Transitions(id int) []cache.Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	return slices.Clone(b.transitions[id])
}

// Summary renders the latest status of every id on one line
func (b *StatusBoard) Summary() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	parts := make([]string, 0, len(b.ids))
	for _, id := range b.ids {
		parts = append(parts, fmt.Sprintf("%d:%s", id, b.latest[id]))
	}
	return strings.Join(parts, " ")
}

// Close unsubscribes from every id. Safe to call more than once.
func (b *StatusBoard) Close() {
	b.mu.Lock()
	unsubscribes := b.unsubscribes
	b.unsubscribes = nil
	b.mu.Unlock()

	for _, unsubscribe := range unsubscribes {
		unsubscribe()
	}
}
