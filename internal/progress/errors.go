package progress

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a referenced session or response does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports a missing required input. User-correctable,
// never retried.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// StoreError reports a relational store failure. Fatal on the core
// Submit writes, swallowed on best-effort counter adjustments.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ArtifactError reports a blob store failure. Fatal on Submit (no
// record exists without its recording), never fatal on Delete.
type ArtifactError struct {
	Op  string
	Err error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("artifact store error during %s: %v", e.Op, e.Err)
}

func (e *ArtifactError) Unwrap() error { return e.Err }
