package app

import (
	"context"
	"fmt"

	"github.com/Amund211/suspense/internal/cache"
	"github.com/Amund211/suspense/internal/domain"
	"github.com/Amund211/suspense/internal/logging"
)

// UsersQuery is the argument of the users cache. There is only one users list.
type UsersQuery struct{}

type usersProvider interface {
	GetUsers(ctx context.Context) ([]domain.User, error)
}

// BuildGetUsers returns the producer for the users cache, keeping the first limit users
func BuildGetUsers(provider usersProvider, limit int) cache.Producer[UsersQuery, []domain.User] {
	return func(ctx context.Context, _ UsersQuery) ([]domain.User, error) {
		users, err := provider.GetUsers(ctx)
		if err != nil {
			// NOTE: usersProvider implementations handle their own error reporting
			return nil, fmt.Errorf("could not get users: %w", err)
		}

		if limit >= 0 && len(users) > limit {
			users = users[:limit]
		}

		logging.FromContext(ctx).InfoContext(ctx, "Loaded users", "count", len(users))

		return users, nil
	}
}
