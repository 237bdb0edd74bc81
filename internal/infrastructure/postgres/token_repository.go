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

type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

const tokenColumns = `id, account_id, code, token, type, expires_at, created_at`

func (r *TokenRepository) Create(ctx context.Context, t *entity.AccountToken) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO account_tokens (account_id, code, token, type, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, t.AccountID, t.Code, t.Token, t.Type, t.ExpiresAt)

	return row.Scan(&t.ID, &t.CreatedAt)
}

func (r *TokenRepository) GetByToken(ctx context.Context, token, tokenType string) (*entity.AccountToken, error) {
	return r.getBy(ctx, `WHERE token = $1 AND type = $2`, token, tokenType)
}

func (r *TokenRepository) GetByAccountAndType(ctx context.Context, accountID int64, tokenType string) (*entity.AccountToken, error) {
	return r.getBy(ctx, `WHERE account_id = $1 AND type = $2 ORDER BY created_at DESC LIMIT 1`, accountID, tokenType)
}

func (r *TokenRepository) getBy(ctx context.Context, where string, args ...any) (*entity.AccountToken, error) {
	t := &entity.AccountToken{}
	row := r.pool.QueryRow(ctx, `SELECT `+tokenColumns+` FROM account_tokens `+where, args...)
	if err := row.Scan(&t.ID, &t.AccountID, &t.Code, &t.Token, &t.Type,
		&t.ExpiresAt, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func (r *TokenRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM account_tokens WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (r *TokenRepository) DeleteByAccountAndType(ctx context.Context, accountID int64, tokenType string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM account_tokens WHERE account_id = $1 AND type = $2`, accountID, tokenType)
	return err
}

func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM account_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

var _ repository.TokenRepository = (*TokenRepository)(nil)
