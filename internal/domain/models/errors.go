package models

import (
	"errors"
	"fmt"
)

// Error kinds a live fetch can fail with. Match with errors.Is.
var (
	ErrUpstreamUnreachable = errors.New("UpstreamUnreachable")
	ErrUpstreamHTTP        = errors.New("UpstreamHttpError")
	ErrUpstreamTimeout     = errors.New("UpstreamTimeout")
	ErrMalformedResponse   = errors.New("MalformedResponse")
	// ErrAllSourcesExhausted means even the fallback produced nothing. It is the
	// only failure surfaced to readers.
	ErrAllSourcesExhausted = errors.New("AllSourcesExhausted")
)

// UpstreamError is a classified live-fetch failure.
type UpstreamError struct {
	Kind   error
	Source string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s: status %d", e.Source, e.Kind, e.Status)
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the kind name of err ("UpstreamTimeout", ...) or "Unknown".
func KindOf(err error) string {
	for _, k := range []error{ErrUpstreamTimeout, ErrUpstreamHTTP, ErrMalformedResponse, ErrUpstreamUnreachable, ErrAllSourcesExhausted} {
		if errors.Is(err, k) {
			return k.Error()
		}
	}
	return "Unknown"
}
