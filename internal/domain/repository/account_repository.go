package repository

import (
	"context"

	"github.com/booknest/library-api/internal/domain/entity"
)

// AccountRepository defines database operations for accounts.
// Lookups return (nil, nil) when no row matches; uniqueness conflicts on
// login/email surface as ErrUniqueViolation.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, id int64) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetByLogin(ctx context.Context, login string) (*entity.Account, error)
	Update(ctx context.Context, a *entity.Account) error
	Delete(ctx context.Context, id int64) (bool, error)
}
