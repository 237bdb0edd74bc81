package repository

import (
	"context"

	"github.com/booknest/library-api/internal/domain/entity"
)

// ReservationRepository defines database operations for reservations.
// The unique index on isbn is the authoritative guard against two active
// reservations for the same book; Create surfaces that conflict as
// ErrUniqueViolation.
//
// A reservation row and the book's available flag must never diverge, so
// Create marks the book unavailable and Delete restores it, both within
// the same transaction as the row change.
type ReservationRepository interface {
	Create(ctx context.Context, r *entity.Reservation) error
	GetByID(ctx context.Context, id int64) (*entity.Reservation, error)
	GetActiveByISBN(ctx context.Context, isbn string) (*entity.Reservation, error)
	ListByUser(ctx context.Context, userID int64) ([]*entity.Reservation, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	Update(ctx context.Context, r *entity.Reservation) error
	Delete(ctx context.Context, id int64) (bool, error)
}
