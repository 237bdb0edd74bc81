package repository

import (
	"context"

	"github.com/booknest/library-api/internal/domain/entity"
)

// CategoryRepository reads static category reference data.
type CategoryRepository interface {
	List(ctx context.Context) ([]*entity.Category, error)
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
}
