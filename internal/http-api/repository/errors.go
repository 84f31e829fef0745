package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNoUpdatableFields is returned when a partial update recognizes none of
	// the supplied fields.
	ErrNoUpdatableFields = errors.New("no updatable fields")

	// ErrDuplicate maps postgres unique violations (23505)
	ErrDuplicate = errors.New("record already exists")

	// ErrForeignKey maps postgres foreign key violations (23503)
	ErrForeignKey = errors.New("referenced record does not exist")
)

// translateError converts driver-level postgres errors into stable repository
// errors so callers never see raw query details.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicate
		case "23503":
			return ErrForeignKey
		}
	}
	return err
}
