package errors

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestDataAccessError(t *testing.T) {
	t.Run("plain driver error", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewDataAccessError("find employees", cause)

		assert.ErrorIs(t, err, cause)
		assert.Empty(t, err.Code)
		assert.Equal(t, "data access: find employees: connection refused", err.Error())
	})

	t.Run("postgres error carries sqlstate", func(t *testing.T) {
		cause := &pgconn.PgError{Code: "23514", Message: "check constraint violated"}
		err := NewDataAccessError("update dependents count", cause)

		assert.Equal(t, "23514", err.Code)
		assert.Contains(t, err.Error(), "sqlstate 23514")

		var dae *DataAccessError
		assert.True(t, errors.As(error(err), &dae))
		assert.False(t, errors.Is(err, ErrNotFound))
	})
}
