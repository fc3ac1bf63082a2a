package account

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Store sentinels. Stores return these; the service turns them into error kinds.
var (
	ErrNotFound    = errors.New("account not found")
	ErrEmailExists = errors.New("email already exists")
)

// ValidationError aggregates every invalid field of a request, keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

type ConflictError struct {
	Email string
}

func (e *ConflictError) Error() string {
	return "email exists"
}

func (e *ConflictError) Unwrap() error {
	return ErrEmailExists
}

type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("account %q not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// StoreError wraps an unexpected persistence (or hashing) failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
