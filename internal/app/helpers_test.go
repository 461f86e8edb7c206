package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/Amund211/suspense/internal/app"
	"github.com/Amund211/suspense/internal/cache"
	"github.com/Amund211/suspense/internal/domain"
	"github.com/Amund211/suspense/internal/domaintest"
	"github.com/stretchr/testify/require"
)

func noDelay() time.Duration {
	return 0
}

// newResolvedUsersCache returns a users cache already resolved to users 1..n
func newResolvedUsersCache(t *testing.T, n int) *cache.Cache[app.UsersQuery, []domain.User] {
	t.Helper()

	users := cache.New(func(ctx context.Context, _ app.UsersQuery) ([]domain.User, error) {
		return domaintest.NewUsers(n), nil
	}, cache.WithName[app.UsersQuery]("users"))
	t.Cleanup(users.Close)

	_, err := users.Fetch(context.Background(), app.UsersQuery{})
	require.NoError(t, err)

	return users
}

func newProfilesCache(t *testing.T, users *cache.Cache[app.UsersQuery, []domain.User]) *cache.Cache[int, domain.User] {
	t.Helper()

	profiles := cache.New(app.BuildGetUserProfile(users, noDelay), cache.WithName[int]("profiles"))
	t.Cleanup(profiles.Close)

	return profiles
}
