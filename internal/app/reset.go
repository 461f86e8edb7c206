package app

import (
	"context"

	"github.com/Amund211/suspense/internal/logging"
)

// ResetProfiles evicts the given profiles and returns how many had an entry
type ResetProfiles func(ctx context.Context, ids []int) int

type profileEvicter interface {
	Evict(id int) bool
}

func BuildResetProfiles(profiles profileEvicter) ResetProfiles {
	return func(ctx context.Context, ids []int) int {
		evicted := 0
		for _, id := range ids {
			if profiles.Evict(id) {
				evicted++
			}
		}

		logging.FromContext(ctx).InfoContext(ctx, "Reset profiles", "requested", len(ids), "evicted", evicted)

		return evicted
	}
}
