package userprovider

import (
	"testing"

	"github.com/Amund211/suspense/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestUsersFromResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		response   []byte
		statusCode int
		expected   []domain.User
		err        error
		errString  string
	}{
		{
			name: "Real valid response",
			response: []byte(`[
  {
    "id": 1,
    "name": "Leanne Graham",
    "username": "Bret",
    "email": "Sincere@april.biz",
    "address": {
      "street": "Kulas Light",
      "suite": "Apt. 556",
      "city": "Gwenborough",
      "zipcode": "92998-3874",
      "geo": {
        "lat": "-37.3159",
        "lng": "81.1496"
      }
    },
    "phone": "1-770-736-8031 x56442",
    "website": "hildegard.org",
    "company": {
      "name": "Romaguera-Crona",
      "catchPhrase": "Multi-layered client-server neural-net",
      "bs": "harness real-time e-markets"
    }
  }
]`),
			statusCode: 200,
			expected: []domain.User{
				{
					ID:       1,
					Name:     "Leanne Graham",
					Username: "Bret",
					Email:    "Sincere@april.biz",
					Address: domain.Address{
						Street:  "Kulas Light",
						Suite:   "Apt. 556",
						City:    "Gwenborough",
						Zipcode: "92998-3874",
					},
					Phone:   "1-770-736-8031 x56442",
					Website: "hildegard.org",
					Company: domain.Company{
						Name:        "Romaguera-Crona",
						CatchPhrase: "Multi-layered client-server neural-net",
						BS:          "harness real-time e-markets",
					},
				},
			},
		},
		{
			name:       "empty list",
			response:   []byte(`[]`),
			statusCode: 200,
			expected:   []domain.User{},
		},
		{
			name:       "404",
			response:   []byte(`{}`),
			statusCode: 404,
			err:        domain.ErrUserNotFound,
		},
		{
			name:       "429 no body",
			response:   []byte(``),
			statusCode: 429,
			err:        domain.ErrTemporarilyUnavailable,
		},
		{
			name:       "503 no body",
			response:   []byte(``),
			statusCode: 503,
			err:        domain.ErrTemporarilyUnavailable,
		},
		{
			name:       "504 no body",
			response:   []byte(``),
			statusCode: 504,
			err:        domain.ErrTemporarilyUnavailable,
		},
		{
			name:       "500",
			response:   []byte(`oops`),
			statusCode: 500,
			errString:  "users API returned status code 500",
		},
		{
			name:       "invalid json",
			response:   []byte(`{"id": 1}`),
			statusCode: 200,
			errString:  "failed to parse users response",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			users, err := usersFromResponse(test.statusCode, test.response)
			switch {
			case test.err != nil:
				require.ErrorIs(t, err, test.err)
			case test.errString != "":
				require.ErrorContains(t, err, test.errString)
			default:
				require.NoError(t, err)
				require.Equal(t, test.expected, users)
			}
		})
	}
}
