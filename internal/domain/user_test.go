package domain_test

import (
	"testing"

	"github.com/Amund211/suspense/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestFindUser(t *testing.T) {
	t.Parallel()

	users := []domain.User{
		{ID: 1, Name: "Leanne Graham"},
		{ID: 2, Name: "Ervin Howell"},
	}

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		user, ok := domain.FindUser(users, 2)
		require.True(t, ok)
		require.Equal(t, "Ervin Howell", user.Name)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		_, ok := domain.FindUser(users, 3)
		require.False(t, ok)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		_, ok := domain.FindUser(nil, 1)
		require.False(t, ok)
	})
}
