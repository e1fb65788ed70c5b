package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountNotFound = errors.New("account not found")
var ErrCompanyNotFound = errors.New("company not found")
var ErrDriverNotFound = errors.New("driver not found")

// ConflictError reports a duplicate value on a field that must be unique
// within the owner's scope. It carries the offending field so the API can
// return a field-tagged error.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewConflict builds a ConflictError for the given field.
func NewConflict(field, message string) *ConflictError {
	return &ConflictError{Field: field, Message: message}
}
