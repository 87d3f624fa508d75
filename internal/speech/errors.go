package speech

import (
	"errors"
	"fmt"
)

var (
	// ErrJobNotFound is returned for job ids absent from the registry.
	ErrJobNotFound = errors.New("job not found")

	// ErrNotReady is returned when a download is requested before the
	// audio object exists.
	ErrNotReady = errors.New("audio not ready yet")

	// ErrDuplicateJob is returned by the registry when a job id is
	// already taken.
	ErrDuplicateJob = errors.New("job id already exists")
)

// ValidationError reports a rejected submission. No job is created when
// validation fails.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// StorageError wraps an artifact store failure with the operation that
// produced it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
