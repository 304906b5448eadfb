package services

import (
	"errors"

	"github.com/coursekit/platform-service/internal/repositories"
	"github.com/coursekit/platform-service/internal/token"
	"github.com/coursekit/platform-service/internal/validator"
)

var (
	// ErrInvalidCredentials is the single error for every login failure:
	// unknown email, wrong password, or an account that may not sign in.
	// The uniform message prevents account enumeration.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict means a uniqueness constraint rejected the write.
	ErrConflict = errors.New("resource already exists")

	// ErrForbidden means the caller is authenticated but not allowed.
	ErrForbidden = errors.New("operation not permitted")

	// ErrAlreadyVerified means the account has already left the inactive state.
	ErrAlreadyVerified = errors.New("account is already verified")

	// ErrPasswordMismatch means the supplied current password was wrong.
	ErrPasswordMismatch = errors.New("current password is incorrect")
)

// IsValidationError reports whether err carries field validation failures.
func IsValidationError(err error) bool {
	var ve validator.ValidationErrors
	return errors.As(err, &ve)
}

// IsNotFoundError reports whether err means a missing entity at any layer.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || repositories.IsNotFoundError(err)
}

// IsConflictError reports whether err means a uniqueness violation at any layer.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict) || repositories.IsConflictError(err)
}

// IsTokenError reports whether err is a token verification failure.
func IsTokenError(err error) bool {
	return errors.Is(err, token.ErrTokenInvalid) || errors.Is(err, token.ErrTokenTypeMismatch)
}
