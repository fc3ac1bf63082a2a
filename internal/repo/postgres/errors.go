package postgres

import (
	"errors"
	"fmt"

	"github.com/geocoder89/userhub/internal/domain/account"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode = "23505"

	usersEmailConstraint = "users_email_uniq"
)

// IsUniqueViolation reports a 23505 error, optionally limited to one constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError

	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return false
	}

	return constraint == "" || pgErr.ConstraintName == constraint
}

// mapError turns driver errors into the account store sentinels, keeping the
// original error in the chain for logs.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return account.ErrNotFound
	}

	if IsUniqueViolation(err, usersEmailConstraint) {
		return fmt.Errorf("%w: %v", account.ErrEmailExists, err)
	}

	return err
}
