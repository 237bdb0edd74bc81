package repository

import (
	"context"

	"github.com/booknest/library-api/internal/domain/entity"
)

// UserRepository defines database operations for user profiles.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByAccountID(ctx context.Context, accountID int64) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id int64) (bool, error)
}
