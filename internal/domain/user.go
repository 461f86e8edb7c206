package domain

type Address struct {
	Street  string
	Suite   string
	City    string
	Zipcode string
}

type Company struct {
	Name        string
	CatchPhrase string
	BS          string
}

type User struct {
	ID       int
	Name     string
	Username string
	Email    string
	Address  Address
	Phone    string
	Website  string
	Company  Company
}

// FindUser returns the user with the given id from users
func FindUser(users []User, id int) (User, bool) {
	for _, user := range users {
		if user.ID == id {
			return user, true
		}
	}
	return User{}, false
}
