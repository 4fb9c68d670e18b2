package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBody means there was nothing to parse.
	ErrEmptyBody = errors.New("empty response body")
	// ErrInvalidURL means the request URL could not be built; no request was made.
	ErrInvalidURL = errors.New("invalid request url")
	// ErrUnexpectedStatus marks a completed request that did not return 200.
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

// ParseError reports the first structural problem met while walking a response.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
