package storage

import (
	"fmt"
)

// ErrDuplicateEmail indicates the email already exists in one of the identity tables.
type ErrDuplicateEmail struct {
	Email string
	Table string
}

func (e *ErrDuplicateEmail) Error() string {
	return fmt.Sprintf("a record with this email already exists in the %s table: %s", e.Table, e.Email)
}

// PersistenceError wraps any other database failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ErrCandidateNotFound is returned by GetCandidateContext for unknown IDs.
type ErrCandidateNotFound struct {
	CandidateID string
}

func (e *ErrCandidateNotFound) Error() string {
	return fmt.Sprintf("candidate not found: %s", e.CandidateID)
}
