package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey means a unique constraint rejected the write. This is
	// the single source of truth for email/username uniqueness.
	ErrDuplicateKey = errors.New("duplicate key")
)

// TranslateError maps store-level failures onto the repository error kinds.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
	}
	return err
}

// IsNotFoundError reports whether err is a missing-record error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsConflictError reports whether err is a uniqueness violation.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey)
}
