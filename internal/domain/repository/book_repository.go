package repository

import (
	"context"

	"github.com/booknest/library-api/internal/domain/entity"
)

// BookCriteria filters catalog searches. Zero-valued fields are ignored.
type BookCriteria struct {
	ISBN       string
	Title      string
	Author     string
	CategoryID int64
}

// BookRepository defines database operations for the book catalog.
type BookRepository interface {
	Create(ctx context.Context, b *entity.Book) error
	GetByISBN(ctx context.Context, isbn string) (*entity.Book, error)
	Update(ctx context.Context, b *entity.Book) error
	Delete(ctx context.Context, isbn string) (bool, error)
	FindAllAvailable(ctx context.Context) ([]*entity.Book, error)
	FindByCriteria(ctx context.Context, c BookCriteria) ([]*entity.Book, error)
	ToggleAvailability(ctx context.Context, isbn string) (bool, error)
}
