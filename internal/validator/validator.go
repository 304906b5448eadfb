package validator

import (
	"github.com/go-playground/validator/v10"
)

// Validator wraps struct validation and business rule validation behind one
// entry point shared by the service layer.
type Validator struct {
	validate *validator.Validate
	business *BusinessValidator
}

// NewValidator creates a validator with all custom rules registered.
func NewValidator() *Validator {
	business := NewBusinessValidator()
	return &Validator{
		validate: business.validate,
		business: business,
	}
}

// ValidateStruct runs tag-based validation on any request struct. A nil
// return means the struct passed; otherwise the error is ValidationErrors.
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// GetBusinessValidator exposes the business rule validator.
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}
