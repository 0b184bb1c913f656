package services

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a provider that cannot be called as configured,
// usually because its credential is absent. It is never retried.
type ConfigurationError struct {
	Provider ProviderTag
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("provider %s is not configured: %s", e.Provider, e.Reason)
}

// UpstreamError reports a failed vendor call: transport failure, timeout or
// a non-success HTTP status.
type UpstreamError struct {
	Provider   ProviderTag
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s returned status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s request failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ParseError reports model output that holds no usable JSON object.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse model output: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to parse model output: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// GradingUnavailableError means automated grading could not produce a
// result and the submission must be graded manually.
type GradingUnavailableError struct {
	Err error
}

func (e *GradingUnavailableError) Error() string {
	return fmt.Sprintf("automated grading unavailable: %v", e.Err)
}

func (e *GradingUnavailableError) Unwrap() error {
	return e.Err
}

var ErrNoTasks = errors.New("grading request has no tasks")
