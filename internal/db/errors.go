package db

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
)

var (
	// ErrNoRows is returned when a document lookup finds nothing.
	ErrNoRows = errors.New("no rows in result set")

	// ErrUnsupportedURL is returned for database URLs with an unknown scheme.
	ErrUnsupportedURL = errors.New("unsupported database URL")
)

// IsNoRows reports whether err means a lookup found nothing, whichever
// driver produced it.
func IsNoRows(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNoRows) ||
		errors.Is(err, sql.ErrNoRows) ||
		errors.Is(err, pgx.ErrNoRows)
}
