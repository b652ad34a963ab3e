package storage

import (
	"errors"
)

var (
	// ErrNotFound is returned when a retrieved key does not exist in the
	// database.
	ErrNotFound = errors.New("key not found")

	// ErrAlreadyExists is returned when an insert hits an existing key.
	ErrAlreadyExists = errors.New("key already exists")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
