package entity

import (
	"time"
)

// Token types issued by the account lifecycle.
const (
	TokenTypeVerifyEmail   = "verify_email"
	TokenTypeResetPassword = "reset_password"
)

// AccountToken is a short-lived, single-use secret tied to an account.
// Exactly one of Code or Token is set: verify_email tokens carry a 6-digit
// numeric Code, reset_password tokens carry a 32-hex-char Token. A token is
// consumed (deleted) on successful use; expired tokens fail lookups even
// before the sweep removes them.
type AccountToken struct {
	ID        int64
	AccountID int64
	Code      string
	Token     string
	Type      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is no longer valid at the given instant.
func (t *AccountToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
