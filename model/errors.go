package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a station lookup by id or name matches
// nothing. Recoverable: retry with different input.
var ErrNotFound = errors.New("station not found")

// FetchError wraps a network failure for a single feed. A FetchError
// never aborts a whole query; the feed's contribution is dropped
// instead.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DecodeError means a payload could not be decoded as the expected
// format. A feed that decodes but contains no matching records is an
// empty result, not a DecodeError.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "decoding: " + e.Reason
	}
	return fmt.Sprintf("decoding: %s: %v", e.Reason, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
