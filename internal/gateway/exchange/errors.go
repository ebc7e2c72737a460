package exchange

import (
	"errors"
	"fmt"
)

// FetchError marks a transient transport/rate-limit failure. The caller
// skips the current cycle; the next poll is its own attempt, there is no
// in-cycle retry.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError wraps err as transient, preserving an existing FetchError.
func NewFetchError(op string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &FetchError{Op: op, Err: err}
}

// IsTransient reports whether err is a FetchError.
func IsTransient(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// RejectionError is a business-rule rejection by the venue (insufficient
// balance, bad precision, ...). Never retried automatically.
type RejectionError struct {
	Op      string
	Code    string
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s rejected by exchange: code=%s msg=%s", e.Op, e.Code, e.Message)
}

// IsRejection reports whether err is an exchange business rejection.
func IsRejection(err error) bool {
	var re *RejectionError
	return errors.As(err, &re)
}
