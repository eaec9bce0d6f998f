package common

import (
	"errors"
	"fmt"
)

// NotFoundError signals that an entity could not be located by a key.
type NotFoundError struct {
	Entity string
	Key    string
	Value  interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with %s: %v", e.Entity, e.Key, e.Value)
}

// NewNotFound builds a NotFoundError for the given entity and key.
func NewNotFound(entity, key string, value interface{}) error {
	return &NotFoundError{Entity: entity, Key: key, Value: value}
}

// BadRequestError signals a validation or business-rule failure.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

// NewBadRequest builds a BadRequestError with a formatted message.
func NewBadRequest(format string, args ...interface{}) error {
	return &BadRequestError{Message: fmt.Sprintf(format, args...)}
}

// ErrInsufficientStock is returned when a guarded stock decrement affects no
// rows, meaning the product no longer has the requested quantity available.
var ErrInsufficientStock = errors.New("insufficient stock")

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsBadRequest reports whether err is (or wraps) a BadRequestError.
func IsBadRequest(err error) bool {
	var br *BadRequestError
	return errors.As(err, &br)
}
