package entity

import (
	"time"
)

// User holds profile and address data. Each User references exactly one
// Account; the Account has no back-reference.
type User struct {
	ID           int64
	Name         string
	Surname      string
	AddressLine1 string
	AddressLine2 string
	AddressLine3 string
	City         string
	AccountID    int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
