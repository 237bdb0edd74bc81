package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/booknest/library-api/internal/domain/repository"
)

var errNotFound = errors.New("not found")

// uniqueViolation is the SQLSTATE postgres reports when a unique index
// rejects a write.
const uniqueViolation = "23505"

// mapWriteErr translates driver-level constraint failures into the
// repository-level conflict signal.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrUniqueViolation
	}
	return err
}
