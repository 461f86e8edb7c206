package domaintest

import (
	"fmt"

	"github.com/Amund211/suspense/internal/domain"
)

type userBuilder struct {
	user domain.User
}

func (ub *userBuilder) WithName(name string) *userBuilder {
	ub.user.Name = name
	return ub
}

func (ub *userBuilder) WithCity(city string) *userBuilder {
	ub.user.Address.City = city
	return ub
}

func (ub *userBuilder) Build() domain.User {
	return ub.user
}

func NewUserBuilder(id int) *userBuilder {
	return &userBuilder{
		user: domain.User{
			ID:       id,
			Name:     fmt.Sprintf("User %d", id),
			Username: fmt.Sprintf("user%d", id),
			Email:    fmt.Sprintf("user%d@example.com", id),
			Address: domain.Address{
				Street:  "Kulas Light",
				Suite:   "Apt. 556",
				City:    "Gwenborough",
				Zipcode: "92998-3874",
			},
			Phone:   "1-770-736-8031 x56442",
			Website: "example.com",
			Company: domain.Company{
				Name:        "Romaguera-Crona",
				CatchPhrase: "Multi-layered client-server neural-net",
				BS:          "harness real-time e-markets",
			},
		},
	}
}

// NewUsers builds users with ids 1..n
func NewUsers(n int) []domain.User {
	users := make([]domain.User, 0, n)
	for id := 1; id <= n; id++ {
		users = append(users, NewUserBuilder(id).Build())
	}
	return users
}
