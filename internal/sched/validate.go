package sched

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// asValidationError converts the first tag violation into a field-targeted
// error so the UI can highlight exactly the offending input.
func asValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Field: "request", Message: err.Error()}
	}

	verr := verrs[0]
	field := strings.ToLower(verr.Field()[:1]) + verr.Field()[1:]
	switch verr.Tag() {
	case "required":
		return &ValidationError{Field: field, Message: "is required"}
	case "email":
		return &ValidationError{Field: field, Message: "must be a valid email address"}
	case "min":
		return &ValidationError{Field: field, Message: "must be at least " + verr.Param()}
	default:
		return &ValidationError{Field: field, Message: "is invalid"}
	}
}
