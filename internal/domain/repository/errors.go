package repository

import "errors"

// ErrUniqueViolation is returned by Create/Update when the store rejects a
// write because of a unique constraint (login, email, active reservation
// per isbn). It is the authoritative conflict signal for racy
// read-then-write checks.
var ErrUniqueViolation = errors.New("unique constraint violation")
