// Package dto defines Data Transfer Objects for HTTP request and response handling.
package dto

import "strings"

// MaxQueryLength bounds the accepted query text.
const MaxQueryLength = 64 * 1024

// QueryRequest represents the JSON request body for the query endpoint.
//
// @Description Cypher query with optional parameters
type QueryRequest struct {
	// Query is the Cypher text. Writes are detected from its content.
	Query string `json:"query" binding:"required" example:"MATCH (n:Person) RETURN n.name AS name LIMIT 10"`
	// Parameters are bound to $placeholders in the query.
	Parameters map[string]any `json:"parameters,omitempty" swaggertype:"object"`
} // @name QueryRequest

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

var (
	// ErrEmptyQuery is returned when query is blank.
	ErrEmptyQuery = &ValidationError{Field: "query", Message: "must not be empty"}
	// ErrQueryTooLong is returned when query exceeds MaxQueryLength.
	ErrQueryTooLong = &ValidationError{Field: "query", Message: "exceeds maximum length"}
)

// Validate performs custom validation on the request.
func (r *QueryRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	if len(r.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	return nil
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// InvalidateCacheRequest selects cached query results to drop.
//
// @Description Cache invalidation request; an empty pattern invalidates everything
type InvalidateCacheRequest struct {
	// Pattern is matched as a substring of remote keys. The in-process tier is always cleared.
	Pattern string `json:"pattern" example:"Person"`
} // @name InvalidateCacheRequest
