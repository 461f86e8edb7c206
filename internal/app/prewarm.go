package app

import (
	"context"
	"fmt"

	"github.com/Amund211/suspense/internal/domain"
	"github.com/Amund211/suspense/internal/logging"
	"golang.org/x/sync/errgroup"
)

type PrewarmProfiles func(ctx context.Context, ids []int) error

type profileFetcher interface {
	Fetch(ctx context.Context, id int) (domain.User, error)
}

// BuildPrewarmProfiles fetches every profile concurrently and fails on the first error.
//
// Producers that are still running when another fails keep running and
// settle their entries.
func BuildPrewarmProfiles(profiles profileFetcher) PrewarmProfiles {
	return func(ctx context.Context, ids []int) error {
		logger := logging.FromContext(ctx)

		g, gctx := errgroup.WithContext(ctx)
		for _, id := range ids {
			g.Go(func() error {
				_, err := profiles.Fetch(gctx, id)
				if err != nil {
					return fmt.Errorf("could not prewarm profile %d: %w", id, err)
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			logger.WarnContext(ctx, "Prewarm failed", "error", err.Error())
			return err
		}

		logger.InfoContext(ctx, "Prewarmed profiles", "count", len(ids))
		return nil
	}
}
