package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ValidationError reports bad input shape or range
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports that a referenced entity does not exist
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// AuthenticationError covers missing or invalid credentials. The message never
// says which factor failed.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return "authentication required"
	}
	return e.Message
}

var (
	ErrInvalidCredentials = &AuthenticationError{Message: "incorrect credentials"}
	ErrNotLoggedIn        = &AuthenticationError{Message: "you need to be logged in"}
)

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsAuthentication(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}

// notFoundOr turns gorm.ErrRecordNotFound into a NotFoundError and wraps anything else
func notFoundOr(err error, kind, id, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Kind: kind, ID: id}
	}
	return fmt.Errorf("%s: %w", op, err)
}
