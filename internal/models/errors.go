package models

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session id has no live session.
var ErrSessionNotFound = errors.New("session not found")

// MalformedInputError reports a questionnaire or answers file that failed
// to parse. It is scoped to the offending file; the rest of the session
// remains usable.
type MalformedInputError struct {
	File  string
	Cause error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input %s: %v", e.File, e.Cause)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Cause
}

// PreconditionError reports a generate request rejected before any external
// call is made: missing credential, missing reference documents outside test
// mode, or no non-empty answers.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition not met: " + e.Reason
}

// GenerationError reports a failed mandatory LLM call. The request fails,
// no partial result is stored, and the session can retry.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return "analysis generation failed: " + e.Cause.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
