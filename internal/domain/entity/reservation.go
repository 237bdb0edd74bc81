package entity

import (
	"time"
)

// Reservation links a book to a user until ReservedDate (an expiry, not a
// start date). At most one active reservation exists per ISBN, enforced by
// a unique index; rows are hard-deleted on cancel. Extended records that the
// one permitted extension has been used.
type Reservation struct {
	ID           int64
	ISBN         string
	UserID       int64
	ReservedDate time.Time
	Extended     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
