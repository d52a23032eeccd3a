package service

import (
	"errors"
	"fmt"
)

// ErrNotFound covers both a missing entity and an entity owned by another
// user. The two cases are deliberately indistinguishable so that IDs cannot
// be probed across accounts.
var ErrNotFound = errors.New("not found")

// ValidationError is an invariant violation caught before any mutation:
// bad dates, a dangling task group or parent reference, a malformed value.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError is a delete-guard rejection. Count carries the number of
// blocking records for the user-facing message.
type ConflictError struct {
	Reason string
	Count  int64
}

func (e *ConflictError) Error() string { return e.Reason }

func conflictf(count int64, format string, args ...any) error {
	return &ConflictError{Count: count, Reason: fmt.Sprintf(format, args...)}
}
