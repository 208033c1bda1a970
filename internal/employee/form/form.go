// Package form converts submitted update fields into a typed request.
package form

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field names as submitted by the update form.
const (
	FieldID              = "id"
	FieldDependentsCount = "dependentsCount"
)

// UpdateEmployeeForm holds the raw text of the update screen.
type UpdateEmployeeForm struct {
	ID              string `form:"id" validate:"required,positive_int"`
	DependentsCount string `form:"dependentsCount" validate:"required,non_negative_int"`
}

// UpdateRequest is a validated dependents-count update.
type UpdateRequest struct {
	ID              int
	DependentsCount int
}

// FieldError describes why a single field was rejected.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors lists field errors in form order.
type ValidationErrors []FieldError

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// For returns the message for field, or "".
func (v ValidationErrors) For(field string) string {
	for _, fe := range v {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return strings.Join(msgs, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	_ = v.RegisterValidation("positive_int", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n > 0
	})
	_ = v.RegisterValidation("non_negative_int", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n >= 0
	})
	return v
}

// Parse validates the submitted id and dependents count. The returned
// request is only meaningful when the errors are empty.
func Parse(rawID, rawCount string) (UpdateRequest, ValidationErrors) {
	f := UpdateEmployeeForm{
		ID:              strings.TrimSpace(rawID),
		DependentsCount: strings.TrimSpace(rawCount),
	}

	if err := validate.Struct(f); err != nil {
		validateErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return UpdateRequest{}, ValidationErrors{{Field: FieldID, Message: err.Error()}}
		}
		return UpdateRequest{}, toValidationErrors(validateErrs)
	}

	// Both fields passed the integer checks above.
	id, _ := strconv.Atoi(f.ID)
	count, _ := strconv.Atoi(f.DependentsCount)
	return UpdateRequest{ID: id, DependentsCount: count}, nil
}

func toValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, 0, len(errs))
	for _, fe := range errs {
		var msg string
		switch fe.ActualTag() {
		case "required":
			msg = "is required"
		case "positive_int":
			msg = "must be a positive integer"
		case "non_negative_int":
			msg = "must be a non-negative integer"
		default:
			msg = fmt.Sprintf("is invalid (%s)", fe.ActualTag())
		}
		out = append(out, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}
