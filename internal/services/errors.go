package services

import "errors"

// Service errors
var (
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrNoCleartext      = errors.New("no cleartext specified")
	ErrHashFailed       = errors.New("hashing failed")
)

// HashError is returned when a hasher rejects its input. Its message is the
// hasher's own, and it matches ErrHashFailed.
type HashError struct {
	Algorithm string
	Err       error
}

func (e *HashError) Error() string { return e.Err.Error() }

func (e *HashError) Unwrap() []error { return []error{ErrHashFailed, e.Err} }
