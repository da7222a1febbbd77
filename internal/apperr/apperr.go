// Package apperr defines the error taxonomy shared by the core services.
// Handlers map these onto HTTP status codes; everything else propagates as an
// opaque internal error.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input: a bad catalog row, a disallowed
// upload extension, an empty required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an unknown entity id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// AuthorizationError reports that the acting user lacks ownership of or a
// role for the target entity.
type AuthorizationError struct {
	Actor  string
	Target string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("user %q is not authorized for %s", e.Actor, e.Target)
}

// ConflictError reports a duplicate or racing mutation, such as a second
// outstanding reply under the same parent comment.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

func Validation(field, reason string) error { return &ValidationError{Field: field, Reason: reason} }
func NotFound(kind, id string) error        { return &NotFoundError{Kind: kind, ID: id} }
func Unauthorized(actor, target string) error {
	return &AuthorizationError{Actor: actor, Target: target}
}
func Conflict(reason string) error { return &ConflictError{Reason: reason} }

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsUnauthorized(err error) bool {
	var e *AuthorizationError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}
