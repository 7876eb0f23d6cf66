// Package errors provides structured domain errors with HTTP status mapping.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Routing errors
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"

	// Content errors
	CodeContentUnavailable Code = "CONTENT_UNAVAILABLE"
	CodeContentMalformed   Code = "CONTENT_MALFORMED"
	CodeContentMissing     Code = "CONTENT_MISSING"

	// Snapshot errors
	CodeSnapshotEmpty Code = "SNAPSHOT_EMPTY"

	// Shell errors
	CodeBindingMissing Code = "BINDING_MISSING"
	CodePageFetch      Code = "PAGE_FETCH_FAILED"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeContentUnavailable, CodeSnapshotEmpty:
		return http.StatusServiceUnavailable
	case CodeContentMalformed, CodePageFetch:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
