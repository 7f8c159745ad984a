// Package apperrors defines the error taxonomy shared across socrata-engine.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArguments indicates a tool precondition was violated locally,
	// before any remote call was made.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrNotFound indicates a dependent lookup produced no usable match.
	ErrNotFound = errors.New("not found")
)

// DomainNotAllowedError is returned when a target domain is not in the
// configured allowlist. It carries the full allowed set for diagnostics.
type DomainNotAllowedError struct {
	Domain  string
	Allowed []string
}

func (e *DomainNotAllowedError) Error() string {
	return fmt.Sprintf("domain %q is not in the allowed list [%s]",
		e.Domain, strings.Join(e.Allowed, ", "))
}

// RemoteError is returned when the Socrata API answers with a non-success
// status. The response body is captured as text for diagnostics.
type RemoteError struct {
	Status     int
	StatusText string
	Body       string
}

func (e *RemoteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote API returned %d %s", e.Status, e.StatusText)
	}
	return fmt.Sprintf("remote API returned %d %s: %s", e.Status, e.StatusText, e.Body)
}
