package objectstore

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrObjectNotFound indicates an identifier or path is not in the registry
	ErrObjectNotFound = errors.New("object not found")

	// ErrConstraintViolation indicates an operation would break a structural invariant
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrNameConstraintViolation indicates a folder already has a child with the same name
	ErrNameConstraintViolation = fmt.Errorf("%w: name already used in folder", ErrConstraintViolation)

	// ErrInvalidArgument indicates the caller passed an object the operation cannot act on
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotCheckedOut indicates a check-in or cancel on a document that is not checked out
	ErrNotCheckedOut = fmt.Errorf("%w: document is not checked out", ErrConstraintViolation)
)

// ObjectError represents an error related to an operation on a stored object
type ObjectError struct {
	ObjectID string
	Op       string
	Err      error
}

func (e *ObjectError) Error() string {
	return fmt.Sprintf("object operation %s failed for object %s: %v", e.Op, e.ObjectID, e.Err)
}

func (e *ObjectError) Unwrap() error {
	return e.Err
}

func objectError(id, op string, err error) error {
	return &ObjectError{ObjectID: id, Op: op, Err: err}
}
