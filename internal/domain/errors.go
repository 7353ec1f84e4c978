package domain

import (
	"errors"
	"fmt"
)

// Error categories. Specific errors below wrap one of these so callers can
// branch with errors.Is on the category alone.
var (
	ErrValidation                = errors.New("validation error")
	ErrForbidden                 = errors.New("forbidden")
	ErrNotFound                  = errors.New("resource not found")
	ErrUnauthorized              = errors.New("unauthorized")
	ErrUpstreamUnavailable       = errors.New("upstream unavailable")
	ErrAnalysisFailed            = errors.New("analysis failed")
	ErrMalformedUpstreamResponse = errors.New("malformed upstream response")
	ErrPersistence               = errors.New("persistence error")
	ErrStorage                   = errors.New("storage error")
)

var (
	ErrRuleNotFound         = fmt.Errorf("rule not found: %w", ErrNotFound)
	ErrGroupNotFound        = fmt.Errorf("document group not found: %w", ErrNotFound)
	ErrDocumentNotFound     = fmt.Errorf("document not found: %w", ErrNotFound)
	ErrSessionNotFound      = fmt.Errorf("session not found: %w", ErrNotFound)
	ErrDefaultRuleImmutable = fmt.Errorf("default rule cannot be modified or deleted: %w", ErrValidation)
	ErrUnsupportedFileType  = fmt.Errorf("unsupported file type: %w", ErrValidation)
	ErrFileTooLarge         = fmt.Errorf("file exceeds maximum allowed size: %w", ErrValidation)
	ErrDocumentsMissing     = fmt.Errorf("some requested documents not found in group: %w", ErrValidation)
	ErrInvalidTransition    = errors.New("invalid session status transition")
	ErrUploadFailed         = fmt.Errorf("file upload to storage failed: %w", ErrStorage)
)

// Errors whose text is shown to callers and recorded on sessions as is.
var (
	ErrSessionClosed       error = &categorized{"analysis session was closed before the analysis finished", ErrInvalidTransition}
	ErrProviderUnavailable error = &categorized{"document provider unavailable", ErrUpstreamUnavailable}
	ErrEngineUnavailable   error = &categorized{"analysis engine unavailable", ErrUpstreamUnavailable}
)

// categorized is an error with its own message that still matches its
// category under errors.Is.
type categorized struct {
	msg      string
	category error
}

func (e *categorized) Error() string { return e.msg }

func (e *categorized) Unwrap() error { return e.category }

// ValidationError builds an ErrValidation with a caller-facing message.
func ValidationError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrValidation)
}
