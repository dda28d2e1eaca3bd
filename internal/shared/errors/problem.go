// Package errors renders RFC 7807 Problem Details for the order API.
package errors

import (
	"fmt"
	"maps"
	"net/http"
)

// ProblemDetail is the RFC 7807 body; it doubles as an error so handlers can return it.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension never mutates the receiver's map; the package-level templates are shared.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	merged := maps.Clone(p.Extensions)
	if merged == nil {
		merged = make(map[string]any, 1)
	}
	merged[key] = value
	p.Extensions = merged
	return p
}

// Problem type URI references.
const (
	TypeValidation = "/problems/validation-error"
	TypeNotFound   = "/problems/not-found"
	TypeConflict   = "/problems/conflict"
	TypeInternal   = "/problems/internal-error"
	TypeBadRequest = "/problems/bad-request"
)

var (
	ErrNotFound = ProblemDetail{
		Type:   TypeNotFound,
		Title:  "Resource Not Found",
		Status: http.StatusNotFound,
	}

	// ErrValidation covers payloads that decode but break order or inventory invariants.
	ErrValidation = ProblemDetail{
		Type:   TypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
	}

	// ErrBadRequest covers payloads that do not decode.
	ErrBadRequest = ProblemDetail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	ErrConflict = ProblemDetail{
		Type:   TypeConflict,
		Title:  "Conflict",
		Status: http.StatusConflict,
	}

	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
	}
)

// NewNotFoundProblem creates a not found error for a specific resource.
func NewNotFoundProblem(resourceType string, identifier any) ProblemDetail {
	problem := ErrNotFound.WithDetail(fmt.Sprintf("no %s named %q", resourceType, fmt.Sprint(identifier)))
	return problem.WithExtension("resourceType", resourceType).WithExtension("identifier", identifier)
}
