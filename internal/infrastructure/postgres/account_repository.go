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

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, login, email, password_hash, verified, telephone, mobile, created_at, updated_at`

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (login, email, password_hash, verified, telephone, mobile)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, a.Login, a.Email, a.PasswordHash, a.Verified, a.Telephone, a.Mobile)

	return mapWriteErr(row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt))
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*entity.Account, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.getBy(ctx, `WHERE email = $1`, email)
}

func (r *AccountRepository) GetByLogin(ctx context.Context, login string) (*entity.Account, error) {
	return r.getBy(ctx, `WHERE login = $1`, login)
}

func (r *AccountRepository) getBy(ctx context.Context, where string, arg any) (*entity.Account, error) {
	a := &entity.Account{}
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts `+where, arg)
	if err := row.Scan(&a.ID, &a.Login, &a.Email, &a.PasswordHash, &a.Verified,
		&a.Telephone, &a.Mobile, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func (r *AccountRepository) Update(ctx context.Context, a *entity.Account) error {
	a.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET login = $1, email = $2, password_hash = $3, verified = $4,
		    telephone = $5, mobile = $6, updated_at = $7
		WHERE id = $8
	`, a.Login, a.Email, a.PasswordHash, a.Verified, a.Telephone, a.Mobile, a.UpdatedAt, a.ID)
	if err != nil {
		return mapWriteErr(err)
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
