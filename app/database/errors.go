package database

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks failures of the backing store itself. Callers treat
// these as retryable; the task scheduler re-runs the affected pass after a
// backoff.
var ErrUnavailable = errors.New("backing store unavailable")

// ErrNoPublications is returned when no author has ever been published.
var ErrNoPublications = errors.New("no publications recorded")

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
