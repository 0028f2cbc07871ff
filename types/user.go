package types

// User represents an account that can own properties or book them as a guest.
type User struct {
	// ID is the unique identifier assigned by the store.
	ID int `json:"id" db:"id"`

	// Name is the user's display or full name.
	Name string `json:"name" db:"name"`

	// Email is the user's email address. Lookups are case-insensitive.
	Email string `json:"email" db:"email"`

	// Password holds the caller-hashed password.
	// This field is never exposed in API responses.
	Password string `json:"-" db:"password"`
}

// NewUser carries the fields required to insert a user.
type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
