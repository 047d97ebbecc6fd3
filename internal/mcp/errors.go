package mcp

import (
	"errors"
	"fmt"

	"github.com/persoforge/persofeed/internal/domain/generation"
	"github.com/persoforge/persofeed/internal/domain/project"
	"github.com/persoforge/persofeed/internal/transport"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var streamErr *generation.StreamError
	var statusErr *transport.StatusError

	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for valid IDs"}
	case errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "invalid project input", RecoveryHint: "Provide a non-empty project name"}
	case errors.Is(err, generation.ErrNoRows):
		return &APIError{Code: "EMPTY_STREAM", Message: "stream ended before any row", RecoveryHint: "Check that the submission contains source rows"}
	case errors.Is(err, generation.ErrTruncated):
		return &APIError{Code: "STREAM_TRUNCATED", Message: "stream ended without done marker", RecoveryHint: "Re-run the generation"}
	case errors.As(err, &streamErr):
		return &APIError{Code: "GENERATION_FAILED", Message: streamErr.Detail}
	case errors.As(err, &statusErr):
		return &APIError{Code: "UPSTREAM_ERROR", Message: statusErr.Error(), RecoveryHint: "Check the generation endpoint"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
