// Package errs contains sentinel errors shared by the store, engine and
// handler layers so that failures map to stable responses.
package errs

import "errors"

var (
	// ErrNotFound indicates the requested profile, template or document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation, e.g. a second
	// generated page for the same (template, profile) pair.
	ErrAlreadyExists = errors.New("already exists")

	// ErrForbidden indicates the caller may not perform the mutation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput indicates a request payload failed validation.
	ErrInvalidInput = errors.New("invalid input")
)
