package domain

import (
	"errors"
	"fmt"
)

var (
	ErrPoolNotFound    = errors.New("pick pool not found")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidDate     = errors.New("invalid date")
	ErrProfileNotFound = errors.New("user profile not found")
)

// ToolLayerError wraps failures of the LLM / data-API collaborators.
// Retryable errors are retried by the generator's retry policy.
type ToolLayerError struct {
	Op        string
	Retryable bool
	Err       error
}

func (e *ToolLayerError) Error() string {
	return fmt.Sprintf("tool layer %s: %v", e.Op, e.Err)
}

func (e *ToolLayerError) Unwrap() error {
	return e.Err
}

// ValidationError describes a single rejected pick. It never fails a run.
type ValidationError struct {
	Field   string
	Reason  string
	Subject string
}

func (e *ValidationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("invalid pick: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid pick %q: %s %s", e.Subject, e.Field, e.Reason)
}

type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("pick store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type ProfileLookupError struct {
	UserID string
	Err    error
}

func (e *ProfileLookupError) Error() string {
	return fmt.Sprintf("profile lookup for user %s: %v", e.UserID, e.Err)
}

func (e *ProfileLookupError) Unwrap() error {
	return e.Err
}

func IsRetryable(err error) bool {
	var tl *ToolLayerError
	if errors.As(err, &tl) {
		return tl.Retryable
	}
	return false
}
