package repository

import (
	"context"
	"time"

	"github.com/booknest/library-api/internal/domain/entity"
)

// TokenRepository persists account tokens (verification codes and reset
// tokens). Lookups return (nil, nil) on absence.
type TokenRepository interface {
	Create(ctx context.Context, t *entity.AccountToken) error
	GetByToken(ctx context.Context, token, tokenType string) (*entity.AccountToken, error)
	GetByAccountAndType(ctx context.Context, accountID int64, tokenType string) (*entity.AccountToken, error)
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteByAccountAndType(ctx context.Context, accountID int64, tokenType string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
