package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound     = fmt.Errorf("not found")
	ErrInvalidInput = fmt.Errorf("invalid input")
)

// DataAccessError reports a failure talking to the employee store.
// Code holds the PostgreSQL SQLSTATE when the driver exposes one.
type DataAccessError struct {
	Op   string
	Code string
	Err  error
}

// NewDataAccessError wraps err for the given repository operation.
func NewDataAccessError(op string, err error) *DataAccessError {
	dae := &DataAccessError{Op: op, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		dae.Code = pgErr.Code
	}
	return dae
}

func (e *DataAccessError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("data access: %s (sqlstate %s): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("data access: %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}
