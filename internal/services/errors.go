// Package services defines the business logic of the catalog: validation and
// creation of dishes, ingredients, compositions and users, the read-side
// queries behind the pages and the API, and dish update and deletion.
//
// This file centralizes service-level errors so that they can be returned
// consistently by service methods and checked by callers. Translation into
// flash messages or HTTP status codes is done by the handlers.
package services

import (
	"errors"
	"strings"
)

// Not-found and authentication errors.
var (
	// ErrDishNotFound indicates that the requested dish does not exist.
	ErrDishNotFound = errors.New("dish not found")

	// ErrIngredientNotFound indicates that the requested ingredient does not exist.
	ErrIngredientNotFound = errors.New("ingredient not found")

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned by UserService.Identify for an unknown
	// login and for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPageOutOfRange is returned when a page past the last one is requested.
	ErrPageOutOfRange = errors.New("page out of range")
)

// ValidationError reports why a write was refused: field validation
// failures, a uniqueness conflict, or a failed commit. Messages are ordered
// and meant for display. Err holds the store error of a failed commit.
type ValidationError struct {
	Messages []string
	Err      error
}

func (e *ValidationError) Error() string { return strings.Join(e.Messages, ", ") }

// Unwrap returns the underlying store error, if any.
func (e *ValidationError) Unwrap() error { return e.Err }

// Messages returns the display messages carried by err: the list of a
// *ValidationError, or err's own text for anything else.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Messages
	}
	return []string{err.Error()}
}

func rejected(msgs ...string) error {
	return &ValidationError{Messages: msgs}
}

func commitFailed(err error) error {
	return &ValidationError{Messages: []string{err.Error()}, Err: err}
}
