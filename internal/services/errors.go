package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidIdentifier marks a malformed ORCID or DOI. Local to one
	// author; never aborts the enclosing record.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrDirectoryConflict marks ambiguous personnel directory data (for
	// example two employees sharing one ORCID). Forces deferral.
	ErrDirectoryConflict = errors.New("directory conflict")
	// ErrDirectoryUnavailable marks a transient directory failure. Aborts the
	// current DOI; the batch continues.
	ErrDirectoryUnavailable = errors.New("directory unavailable")
	// ErrUserAbort marks an explicit cancellation from the confirmation loop.
	// Stops the batch without committing pending writes.
	ErrUserAbort = errors.New("user abort")

	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// AbortsDOI reports whether an error should terminate processing of the
// current DOI while allowing the batch to continue with the next one.
func AbortsDOI(err error) bool {
	return errors.Is(err, ErrDirectoryUnavailable)
}

// AbortsBatch reports whether an error should stop the whole batch run.
func AbortsBatch(err error) bool {
	return errors.Is(err, ErrUserAbort)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
