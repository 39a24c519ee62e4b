package services

import (
	"fmt"

	"github.com/GrzegKrol/10x-cards/internal/models"
)

const (
	MsgValidationFailed   = "Validation failed"
	MsgGroupNotFound      = "Group not found or access denied"
	MsgFlashcardNotFound  = "Flashcard not found"
	MsgUnauthorized       = "Unauthorized access"
	MsgInvalidCredentials = "Invalid credentials"
)

type ValidationError struct {
	Fields []models.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Fields))
}

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type UpstreamErrorKind string

const (
	UpstreamTimeout   UpstreamErrorKind = "timeout"
	UpstreamStatus    UpstreamErrorKind = "status"
	UpstreamMalformed UpstreamErrorKind = "malformed"
	UpstreamTransport UpstreamErrorKind = "transport"
)

// UpstreamError reports a failed call to the language-model provider.
type UpstreamError struct {
	Provider   string
	Kind       UpstreamErrorKind
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case UpstreamTimeout:
		return fmt.Sprintf("%s API request timed out", e.Provider)
	case UpstreamStatus:
		return fmt.Sprintf("%s API error: status %d: %s", e.Provider, e.StatusCode, e.Body)
	case UpstreamMalformed:
		if e.Err != nil {
			return fmt.Sprintf("%s API error: malformed AI response: %v", e.Provider, e.Err)
		}
		return fmt.Sprintf("%s API error: malformed AI response", e.Provider)
	default:
		return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func groupNotFound() error { return &NotFoundError{Message: MsgGroupNotFound} }

func flashcardNotFound() error { return &NotFoundError{Message: MsgFlashcardNotFound} }
