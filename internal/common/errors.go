// Package common defines shared constants and sentinel errors used across
// the client layers of DocuDefense. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrVersionConflict = errors.New("version conflict")

	// Validation errors.
	ErrorValidation = errors.New("validation error")
	ErrorNotPDF     = errors.New("only PDF documents are accepted")

	// Session errors.
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrInvalidToken = errors.New("invalid token")

	// Directory paging.
	ErrFirstPage   = errors.New("already on the first page")
	ErrNoMorePages = errors.New("no more pages")
)
