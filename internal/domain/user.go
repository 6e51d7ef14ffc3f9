package domain

type User struct {
	ID           int
	Name         string
	PasswordHash string
	Gold         int
	Hat          int
	Shirt        int
	Pants        int
}

// UserSummary is one row of the public roster: no credentials, owned
// items reduced to a count.
type UserSummary struct {
	ID        int
	Name      string
	Gold      int
	Hat       int
	Shirt     int
	Pants     int
	ItemCount int
}
