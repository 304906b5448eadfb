package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// ToValidationErrors converts validator.ValidationErrors into our error type.
func ToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors

	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			errors = append(errors, ValidationError{
				Field:   fe.Field(),
				Message: getErrorMessage(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
		return errors
	}

	errors = append(errors, ValidationError{
		Field:   "request",
		Message: err.Error(),
		Rule:    "invalid",
	})
	return errors
}

// getErrorMessage returns user-friendly error messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "username_format":
		return "must be 3-30 characters of letters, digits, dots or underscores"
	case "password_strength":
		return "must be at least 8 characters"
	case "user_role":
		return "must be a valid user role"
	case "user_status":
		return "must be a valid user status"
	case "media_type":
		return "must be image, video or document"
	case "course_status":
		return "must be draft, published or unpublished"
	case "enrollment_status":
		return "must be pending, approved or rejected"
	case "folder_name":
		return "must be between 1 and 100 characters"
	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
