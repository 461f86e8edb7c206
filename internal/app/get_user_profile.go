package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Amund211/suspense/internal/cache"
	"github.com/Amund211/suspense/internal/domain"
	"github.com/Amund211/suspense/internal/logging"
)

type usersValue interface {
	Value(args UsersQuery) ([]domain.User, error)
}

// RandomDelay returns a delay func picking uniformly from [minDelay, maxDelay]
func RandomDelay(minDelay, maxDelay time.Duration) func() time.Duration {
	return func() time.Duration {
		if maxDelay <= minDelay {
			return minDelay
		}
		return minDelay + rand.N(maxDelay-minDelay+1)
	}
}

// BuildGetUserProfile returns the producer for the profile cache.
//
// The users cache must already be resolved when a profile is produced.
func BuildGetUserProfile(usersCache usersValue, delay func() time.Duration) cache.Producer[int, domain.User] {
	return func(ctx context.Context, id int) (domain.User, error) {
		wait := delay()
		logger := logging.FromContext(ctx).With("userID", id)
		logger.DebugContext(ctx, "Producing profile", "delay", wait)

		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return domain.User{}, fmt.Errorf("profile delay interrupted: %w", ctx.Err())
		}

		users, err := usersCache.Value(UsersQuery{})
		if err != nil {
			return domain.User{}, fmt.Errorf("could not read users: %w", err)
		}

		user, ok := domain.FindUser(users, id)
		if !ok {
			return domain.User{}, fmt.Errorf("%w: %d", domain.ErrUserNotFound, id)
		}

		return user, nil
	}
}
