package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/booknest/library-api/internal/domain/entity"
	repo "github.com/booknest/library-api/internal/domain/repository"
	"github.com/booknest/library-api/pkg/mailer"
)

const (
	// A user may hold at most this many concurrent reservations.
	maxReservationsPerUser = 5

	// Reservations run for three months, and one extension adds three more.
	reservationTerm = 3 // months

	reservedDateFormat = "02 Jan 2006"
)

// ReservationService owns the reservation state machine: a book moves
// between available and reserved, a reservation may be extended exactly
// once, and cancellation restores availability.
type ReservationService struct {
	Reservations repo.ReservationRepository
	Users        repo.UserRepository
	Accounts     repo.AccountRepository
	Books        repo.BookRepository
	Notifier     Notifier
	Logger       *logrus.Logger

	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *ReservationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Reserve creates a reservation for the book. Preconditions are checked in
// a fixed order, each with its own failure: user exists, account verified,
// book exists, no active reservation for the isbn, user below the cap.
// The reservation row and the availability flip are persisted in one
// repository transaction, then the notification is sent; the unique index
// on isbn backs up the active-reservation check under races.
func (s *ReservationService) Reserve(ctx context.Context, isbn string, userID int64) (*entity.Reservation, error) {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	account, err := s.Accounts.GetByID(ctx, user.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	if !account.Verified {
		return nil, ErrUnverified
	}

	book, err := s.Books.GetByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	active, err := s.Reservations.GetActiveByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrAlreadyReserved
	}

	count, err := s.Reservations.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= maxReservationsPerUser {
		return nil, ErrLimitReached
	}

	reservation := &entity.Reservation{
		ISBN:         isbn,
		UserID:       userID,
		ReservedDate: s.now().AddDate(0, reservationTerm, 0),
	}
	if err := s.Reservations.Create(ctx, reservation); err != nil {
		if errors.Is(err, repo.ErrUniqueViolation) {
			return nil, ErrAlreadyReserved
		}
		return nil, err
	}

	s.notify(ctx, mailer.KindReservationCreated, account.Email, map[string]any{
		"Name":          user.Name,
		"Title":         book.Title,
		"Author":        book.Author,
		"Edition":       book.Edition,
		"ISBN":          book.ISBN,
		"ImageURL":      book.ImageURL,
		"ReservedUntil": reservation.ReservedDate.Format(reservedDateFormat),
	})

	return reservation, nil
}

// Extend pushes the reservation's expiry three months past its current
// value (not past now). A reservation can be extended at most once.
func (s *ReservationService) Extend(ctx context.Context, reservation *entity.Reservation) (*entity.Reservation, error) {
	if reservation.Extended {
		return nil, ErrAlreadyExtended
	}

	user, err := s.Users.GetByID(ctx, reservation.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	reservation.ReservedDate = reservation.ReservedDate.AddDate(0, reservationTerm, 0)
	reservation.Extended = true
	if err := s.Reservations.Update(ctx, reservation); err != nil {
		return nil, err
	}

	if account, _ := s.Accounts.GetByID(ctx, user.AccountID); account != nil {
		s.notify(ctx, mailer.KindReservationExtended, account.Email, map[string]any{
			"Name":          user.Name,
			"ReservationID": reservation.ID,
			"ISBN":          reservation.ISBN,
			"ReservedUntil": reservation.ReservedDate.Format(reservedDateFormat),
		})
	}

	return reservation, nil
}

// ExtendByISBN resolves the active reservation for the book and extends it.
func (s *ReservationService) ExtendByISBN(ctx context.Context, isbn string) (*entity.Reservation, error) {
	reservation, err := s.Reservations.GetActiveByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, ErrReservationNotFound
	}
	return s.Extend(ctx, reservation)
}

// Cancel hard-deletes the reservation; the same repository transaction
// flips the book back to available.
func (s *ReservationService) Cancel(ctx context.Context, reservationID int64) error {
	reservation, err := s.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if reservation == nil {
		return ErrReservationNotFound
	}

	user, err := s.Users.GetByID(ctx, reservation.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	ok, err := s.Reservations.Delete(ctx, reservationID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeletionFailed
	}

	if account, _ := s.Accounts.GetByID(ctx, user.AccountID); account != nil {
		s.notify(ctx, mailer.KindReservationCancelled, account.Email, map[string]any{
			"Name":          user.Name,
			"ReservationID": reservation.ID,
		})
	}

	return nil
}

// GetByBook returns the active reservation for the isbn, or nil.
func (s *ReservationService) GetByBook(ctx context.Context, isbn string) (*entity.Reservation, error) {
	return s.Reservations.GetActiveByISBN(ctx, isbn)
}

// GetByUser lists the user's reservations.
func (s *ReservationService) GetByUser(ctx context.Context, userID int64) ([]*entity.Reservation, error) {
	return s.Reservations.ListByUser(ctx, userID)
}

func (s *ReservationService) notify(ctx context.Context, kind, to string, data map[string]any) {
	if s.Notifier == nil {
		return
	}
	if !s.Notifier.Send(ctx, kind, to, data) && s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"kind": kind, "to": to}).Warn("reservation notification not delivered")
	}
}
