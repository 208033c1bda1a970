package handlers

import (
	"errors"
	"net/http"
	"strings"

	e "github.com/gartstein/employees/internal/employee/errors"
	"go.uber.org/zap"
)

// mapServiceError maps domain or repository errors to an HTTP status and a
// message that is safe to show.
func (h *EmployeeHandler) mapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound, "employee not found"
	case errors.Is(err, e.ErrInvalidInput):
		return http.StatusBadRequest, strings.TrimPrefix(err.Error(), e.ErrInvalidInput.Error()+": ")
	default:
		var dae *e.DataAccessError
		if errors.As(err, &dae) {
			h.logger.Error("Data access failed",
				zap.Error(err),
				zap.String("op", dae.Op),
				zap.String("sqlstate", dae.Code),
			)
		} else {
			h.logger.Error("Internal server error", zap.Error(err))
		}
		return http.StatusInternalServerError, "internal server error"
	}
}
