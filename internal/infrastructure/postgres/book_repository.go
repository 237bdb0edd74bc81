package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/booknest/library-api/internal/domain/entity"
	"github.com/booknest/library-api/internal/domain/repository"
)

type BookRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

const bookColumns = `isbn, title, image_url, author, edition, year, available, category_id, created_at, updated_at`

func (r *BookRepository) Create(ctx context.Context, b *entity.Book) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO books (isbn, title, image_url, author, edition, year, available, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, b.ISBN, b.Title, b.ImageURL, b.Author, b.Edition, b.Year, b.Available, b.CategoryID)

	return mapWriteErr(row.Scan(&b.CreatedAt, &b.UpdatedAt))
}

func (r *BookRepository) GetByISBN(ctx context.Context, isbn string) (*entity.Book, error) {
	b := &entity.Book{}
	row := r.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE isbn = $1`, isbn)
	if err := scanBook(row, b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

func (r *BookRepository) Update(ctx context.Context, b *entity.Book) error {
	b.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE books
		SET title = $1, image_url = $2, author = $3, edition = $4, year = $5,
		    available = $6, category_id = $7, updated_at = $8
		WHERE isbn = $9
	`, b.Title, b.ImageURL, b.Author, b.Edition, b.Year, b.Available, b.CategoryID, b.UpdatedAt, b.ISBN)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, isbn string) (bool, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM books WHERE isbn = $1`, isbn)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (r *BookRepository) FindAllAvailable(ctx context.Context) ([]*entity.Book, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bookColumns+` FROM books WHERE available ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBooks(rows)
}

func (r *BookRepository) FindByCriteria(ctx context.Context, c repository.BookCriteria) ([]*entity.Book, error) {
	where := ""
	args := []any{}
	add := func(clause string, arg any) {
		args = append(args, arg)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, len(args))
	}
	if c.ISBN != "" {
		add(`isbn = $%d`, c.ISBN)
	}
	if c.Title != "" {
		add(`title ILIKE '%%' || $%d || '%%'`, c.Title)
	}
	if c.Author != "" {
		add(`author ILIKE '%%' || $%d || '%%'`, c.Author)
	}
	if c.CategoryID != 0 {
		add(`category_id = $%d`, c.CategoryID)
	}

	rows, err := r.pool.Query(ctx, `SELECT `+bookColumns+` FROM books`+where+` ORDER BY title`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBooks(rows)
}

// ToggleAvailability flips the available flag in a single statement, so the
// read and the write cannot diverge. Returns false when no row matched.
func (r *BookRepository) ToggleAvailability(ctx context.Context, isbn string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE books SET available = NOT available, updated_at = now() WHERE isbn = $1
	`, isbn)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func scanBook(row pgx.Row, b *entity.Book) error {
	return row.Scan(&b.ISBN, &b.Title, &b.ImageURL, &b.Author, &b.Edition, &b.Year,
		&b.Available, &b.CategoryID, &b.CreatedAt, &b.UpdatedAt)
}

func collectBooks(rows pgx.Rows) ([]*entity.Book, error) {
	out := []*entity.Book{}
	for rows.Next() {
		b := &entity.Book{}
		if err := scanBook(rows, b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

var _ repository.BookRepository = (*BookRepository)(nil)
