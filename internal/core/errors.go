package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an update, delete or lookup references an unknown id.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput covers malformed user input: numbers, dates, ids.
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidAmount = fmt.Errorf("%w: amount must be a non-negative decimal", ErrInvalidInput)
	ErrInvalidLimit  = fmt.Errorf("%w: limit must be a non-negative decimal", ErrInvalidInput)
	ErrInvalidID     = fmt.Errorf("%w: id must be a positive integer", ErrInvalidInput)
)

// StorageError reports a failure of the storage backend itself (disk full,
// corruption, closed database). It halts the operation in flight only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// WrapStorage wraps err as a StorageError unless it is nil or already a
// not-found or storage error.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorageFailure reports whether err carries a StorageError.
func IsStorageFailure(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
