// Package scoring provides clients for the model scoring service.
package scoring

import "errors"

var (
	// ErrServiceUnavailable indicates the scoring service is unreachable
	ErrServiceUnavailable = errors.New("scoring service unavailable")

	// ErrInvalidResponse indicates the scoring response could not be used
	ErrInvalidResponse = errors.New("invalid response from scoring service")

	// ErrNoActiveModel indicates the registry has no active model for a type
	ErrNoActiveModel = errors.New("no active model registered")

	// ErrSchemaMismatch indicates a feature vector does not fit the model schema
	ErrSchemaMismatch = errors.New("feature vector does not match model schema")
)
