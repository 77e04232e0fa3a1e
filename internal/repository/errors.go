package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	customError "github.com/segyhp/settlement-engine/pkg/errors"
)

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique constraint failure
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// translate maps driver errors onto the domain sentinels
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFound
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %v", customError.ErrDuplicateKey, err)
	default:
		return err
	}
}
