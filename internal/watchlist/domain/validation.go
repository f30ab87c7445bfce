package domain

import (
	"fmt"
	"strings"
)

// Candidate carries the user-supplied fields of a create or update request,
// before validation. Status and Notes are optional and never validated as
// mandatory: a blank Status is resolved to the default by the caller.
type Candidate struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Genre       string `json:"genre"`
	Rating      int    `json:"rating"`
	ReleaseYear int    `json:"release_year"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
}

// ValidationError represents a validation failure on a single field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// Validate checks the candidate's fields in a fixed order:
// title, type, genre, rating, release year. It returns the first
// violation found, so error precedence is deterministic.
func (c Candidate) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return NewValidationError("title", "cannot be empty")
	}
	if c.Type != string(MediaTypeMovie) && c.Type != string(MediaTypeSeries) {
		return NewValidationError("type", "must be Movie or Series")
	}
	if strings.TrimSpace(c.Genre) == "" {
		return NewValidationError("genre", "cannot be empty")
	}
	if c.Rating < 1 || c.Rating > 10 {
		return NewValidationError("rating", "must be between 1 and 10")
	}
	if c.ReleaseYear < 1900 {
		return NewValidationError("releaseYear", "must be 1900 or later")
	}
	return nil
}
