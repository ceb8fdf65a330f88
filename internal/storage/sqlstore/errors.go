package sqlstore

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/SarvaniBalivada/sports-schedular/internal/model"
)

type violation int

const (
	noViolation violation = iota
	uniqueViolation
	foreignKeyViolation
	checkViolation
)

// PostgreSQL SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func constraintViolation(err error) violation {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return uniqueViolation
		case pgForeignKeyViolation:
			return foreignKeyViolation
		case pgCheckViolation:
			return checkViolation
		}
		return noViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return uniqueViolation
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return foreignKeyViolation
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return checkViolation
		}
	}

	// extended result codes are not always enabled on the connection
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return uniqueViolation
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return foreignKeyViolation
	case strings.Contains(msg, "CHECK constraint failed"):
		return checkViolation
	}
	return noViolation
}

// classify translates a driver error into a domain error. onUnique and
// onForeignKey are returned for the matching constraint violations when set;
// anything unrecognised becomes an UnavailableError.
func classify(op string, err error, onUnique, onForeignKey error) error {
	if err == nil {
		return nil
	}
	switch constraintViolation(err) {
	case uniqueViolation:
		if onUnique != nil {
			return onUnique
		}
	case foreignKeyViolation:
		if onForeignKey != nil {
			return onForeignKey
		}
	case checkViolation:
		return model.Invalid("%s: value out of range", op)
	}
	return model.Unavailable(op, err)
}

// classifyRow is classify for single-row lookups, mapping sql.ErrNoRows to notFound
func classifyRow(op string, err error, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return classify(op, err, nil, nil)
}
