// Package errs defines the failure classes shared by the store, the
// services and the HTTP layer. Handlers translate each class into a status
// code and a message: ValidationError becomes a 400 carrying its own text,
// StorageError and ConsistencyError become a 500 with ServerErrorMessage.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ServerErrorMessage is the only text a client ever sees for a server-side
// failure. The underlying cause is logged instead.
const ServerErrorMessage = "Something went wrong on the server. Please try again later."

// ErrNotExist is wrapped by StorageError when a document file is missing.
var ErrNotExist = errors.New("document does not exist")

// ValidationError reports input the caller can fix.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// StorageError reports an I/O or corruption failure on a document.
type StorageError struct {
	Path string
	Op   string // read, parse, validate, write
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError for the given operation and path.
func Storage(op, path string, err error) error {
	return &StorageError{Path: path, Op: op, Err: err}
}

// ConsistencyError reports a multi-document write that left documents out
// of step with each other, e.g. inventory persisted without its purchase.
type ConsistencyError struct {
	Written  []string // documents that reached disk
	Failed   string   // document whose write failed
	Restored bool     // Written documents were put back to their previous bytes
	Err      error
}

func (e *ConsistencyError) Error() string {
	state := "left in place"
	if e.Restored {
		state = "restored"
	}
	return fmt.Sprintf("inconsistent commit: wrote [%s] (%s) but %s failed: %v",
		strings.Join(e.Written, ", "), state, e.Failed, e.Err)
}

func (e *ConsistencyError) Unwrap() error { return e.Err }

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsStorage reports whether err is, or wraps, a StorageError.
func IsStorage(err error) bool {
	var s *StorageError
	return errors.As(err, &s)
}

// IsConsistency reports whether err is, or wraps, a ConsistencyError.
func IsConsistency(err error) bool {
	var c *ConsistencyError
	return errors.As(err, &c)
}
