package core

import (
	"errors"
	"fmt"
)

// ErrRunInProgress is returned when a refresh is requested while another one
// is still running.
var ErrRunInProgress = errors.New("refresh already in progress")

// PersistError means the merged list could not be written to storage. The
// in-memory snapshot is left untouched when it occurs.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist jobs: %v", e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

func (e *PersistError) Kind() string {
	return "persist"
}
