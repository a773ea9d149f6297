package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no recipe matches the requested id.
	ErrNotFound = errors.New("recipe not found")

	// ErrStorageUnavailable matches every *StorageError through errors.Is.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError reports malformed or missing input. It is always returned
// before the database is touched.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StorageError wraps a failure returned by the database driver.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s recipes: %s: %v", e.Op, ErrStorageUnavailable, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

func storageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
