package models

// User represents a registered user account.
// For ledger computations a user is only an opaque ID; the remaining fields
// are used by authentication and display.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's email address (unique).
	// Used for login.
	Email string `json:"email"`

	// Phone is an optional contact number.
	Phone string `json:"phone,omitempty"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64 `json:"createdAt"`
}

// NewUser creates a user with the given identity and password hash.
// ID and CreatedAt are assigned by the store.
func NewUser(email, name, passwordHash string) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}
}
