package application

import "errors"

// Lifecycle failures. Handlers map these onto HTTP statuses; none are fatal
// to the process.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrBookNotFound        = errors.New("book not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTokenNotFound       = errors.New("verification token not found")

	ErrLoginTaken = errors.New("login is taken")
	ErrEmailTaken = errors.New("email is taken")
	ErrUserExists = errors.New("a user already exists for this account")
	ErrBookExists = errors.New("a book with this isbn already exists")

	ErrInvalidCode           = errors.New("invalid verification code")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrSamePassword          = errors.New("new password should be different from the old one")

	ErrUnverified      = errors.New("email not verified")
	ErrAlreadyReserved = errors.New("book is already reserved")
	ErrAlreadyExtended = errors.New("reservation already extended once")
	ErrLimitReached    = errors.New("max number of book reservations reached")

	ErrDeletionFailed = errors.New("deletion failed")
)

// ValidationError reports the first failing input check.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErr(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
