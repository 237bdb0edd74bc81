package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/booknest/library-api/internal/domain/entity"
	"github.com/booknest/library-api/internal/domain/repository"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

const reservationColumns = `id, isbn, user_id, reserved_date, extended, created_at, updated_at`

// Create inserts the reservation and marks the book unavailable in one
// transaction, so a failure on either statement leaves no stranded state.
func (r *ReservationRepository) Create(ctx context.Context, res *entity.Reservation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO books_reserved (isbn, user_id, reserved_date, extended)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, res.ISBN, res.UserID, res.ReservedDate, res.Extended)
	if err := row.Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return mapWriteErr(err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE books SET available = false, updated_at = now() WHERE isbn = $1
	`, res.ISBN); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*entity.Reservation, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

// GetActiveByISBN returns the reservation currently holding the book, if
// any. Cancelled rows are hard-deleted, so presence equals activity.
func (r *ReservationRepository) GetActiveByISBN(ctx context.Context, isbn string) (*entity.Reservation, error) {
	return r.getBy(ctx, `WHERE isbn = $1`, isbn)
}

func (r *ReservationRepository) getBy(ctx context.Context, where string, arg any) (*entity.Reservation, error) {
	res := &entity.Reservation{}
	row := r.pool.QueryRow(ctx, `SELECT `+reservationColumns+` FROM books_reserved `+where, arg)
	if err := row.Scan(&res.ID, &res.ISBN, &res.UserID, &res.ReservedDate,
		&res.Extended, &res.CreatedAt, &res.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID int64) ([]*entity.Reservation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reservationColumns+` FROM books_reserved WHERE user_id = $1 ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*entity.Reservation{}
	for rows.Next() {
		res := &entity.Reservation{}
		if err := rows.Scan(&res.ID, &res.ISBN, &res.UserID, &res.ReservedDate,
			&res.Extended, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *ReservationRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM books_reserved WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *ReservationRepository) Update(ctx context.Context, res *entity.Reservation) error {
	res.UpdatedAt = time.Now()
	tag, err := r.pool.Exec(ctx, `
		UPDATE books_reserved
		SET reserved_date = $1, extended = $2, updated_at = $3
		WHERE id = $4
	`, res.ReservedDate, res.Extended, res.UpdatedAt, res.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

// Delete removes the reservation and restores the book's availability in
// one transaction. Returns false when no row matched.
func (r *ReservationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var isbn string
	err = tx.QueryRow(ctx, `DELETE FROM books_reserved WHERE id = $1 RETURNING isbn`, id).Scan(&isbn)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE books SET available = true, updated_at = now() WHERE isbn = $1
	`, isbn); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

var _ repository.ReservationRepository = (*ReservationRepository)(nil)
