// Package validation applies struct-tag validation to form payloads before
// any side-effecting call, returning a plain list of field errors instead of
// raising.
package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// FieldError describes one failed constraint on one form field.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

// ValidateStruct validates a tagged struct and returns nil when every
// constraint holds.
func ValidateStruct(payload interface{}) []*FieldError {
	err := structValidator.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrors []*FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		fieldErrors = append(fieldErrors, &FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return fieldErrors
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of the listed choices", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
