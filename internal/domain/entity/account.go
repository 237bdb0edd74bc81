package entity

import (
	"time"
)

// Account is the authentication identity: login, email and password hash.
// Passwords are stored as bcrypt hashes in PasswordHash and never leave
// the service in plain text.
type Account struct {
	ID           int64
	Login        string
	Email        string
	PasswordHash string
	Verified     bool
	Telephone    string
	Mobile       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
