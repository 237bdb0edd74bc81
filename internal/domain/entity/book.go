package entity

import (
	"time"
)

// Book is a catalog entry keyed by its ISBN. Available is the sole
// availability signal: reserve flips it off, cancel flips it back.
type Book struct {
	ISBN       string
	Title      string
	ImageURL   string
	Author     string
	Edition    string
	Year       int
	Available  bool
	CategoryID *int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
