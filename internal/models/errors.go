package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSymbol    = errors.New("invalid symbol")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidBar       = errors.New("invalid bar (high < low)")
	ErrInvalidVolume    = errors.New("invalid volume")

	// ErrNoData marks an empty or invalid provider response. Recoverable:
	// the pipeline reports a warning and continues with the next symbol.
	ErrNoData = errors.New("no price data available")

	// ErrInsufficientHistory marks a series too short for a requested
	// window or forecast.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrFitFailed marks a model training failure; the forecast is omitted
	// for that symbol.
	ErrFitFailed = errors.New("model fit failed")
)

// RemoteServiceError wraps a failure from a hosted collaborator (narrative
// model call, rendering service). The underlying cause is preserved and
// must be surfaced to the caller, never swallowed into a default value.
type RemoteServiceError struct {
	Service string
	Err     error
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("remote service %s: %v", e.Service, e.Err)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

// NewRemoteServiceError wraps err as a RemoteServiceError for the named
// service.
func NewRemoteServiceError(service string, err error) *RemoteServiceError {
	return &RemoteServiceError{Service: service, Err: err}
}
