package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate record")
	ErrForeignKey = errors.New("referenced record does not exist")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// classify maps constraint violations onto the package sentinels, keeping the
// driver error in the chain.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return &constraintError{sentinel: ErrDuplicate, constraint: pgErr.ConstraintName, err: err}
	case pgForeignKeyViolation:
		return &constraintError{sentinel: ErrForeignKey, constraint: pgErr.ConstraintName, err: err}
	}
	return err
}

type constraintError struct {
	sentinel   error
	constraint string
	err        error
}

func (e *constraintError) Error() string { return e.err.Error() }

func (e *constraintError) Unwrap() []error { return []error{e.sentinel, e.err} }

// Constraint returns the name of the violated constraint, if err carries one.
func Constraint(err error) string {
	var ce *constraintError
	if errors.As(err, &ce) {
		return ce.constraint
	}
	return ""
}
