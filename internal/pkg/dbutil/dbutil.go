package dbutil

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Finalize rebinds gendry's ? placeholders to postgres $n.
func Finalize(query string, args []interface{}) (string, []interface{}) {
	return sqlx.Rebind(sqlx.DOLLAR, query), args
}

func IsConflict(err error) bool {
	return hasCode(err, pgUniqueViolation)
}

func IsMissingReference(err error) bool {
	return hasCode(err, pgForeignKeyViolation)
}

// Affected reports whether the statement touched at least one row.
func Affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func hasCode(err error, code pq.ErrorCode) bool {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
