// Package service contains the session store, the file repository and
// the background job processing of the application
package service

import "errors"

var (
	// ErrUnauthorized covers missing, invalid and expired tokens or credentials
	ErrUnauthorized = errors.New("Unauthorized")

	// ErrNotFound also masks reads of private entities by non-owners so
	// their existence doesn't leak
	ErrNotFound = errors.New("Not found")

	// ErrForbidden is returned when a non-owner tries to mutate an entity
	ErrForbidden = errors.New("Forbidden")
)

// ValidationError is a rejected request field. Handlers map it to a 400
// with the message as-is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validation(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

var (
	ErrMissingName     = validation("Missing name")
	ErrMissingType     = validation("Missing type")
	ErrMissingData     = validation("Missing data")
	ErrInvalidData     = validation("Invalid data")
	ErrParentNotFound  = validation("Parent not found")
	ErrParentNotFolder = validation("Parent is not a folder")
	ErrFolderNoContent = validation("A folder doesn't have content")
	ErrInvalidSize     = validation("Invalid size")
)
