package models

import (
	"errors"
	"fmt"
)

// ErrStorage matches every StorageError via errors.Is
var ErrStorage = errors.New("storage error")

// ErrMalformedRecord is returned when an observation has no usable structure at all
var ErrMalformedRecord = errors.New("malformed observation record")

// StorageError reports that a data source or reference table could not be used
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
