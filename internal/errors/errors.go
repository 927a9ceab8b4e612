// Package errors provides custom error types for the CivicLens service.
//
// This package defines domain-specific errors that help with error handling
// and recovery throughout the application. The taxonomy mirrors how failures
// are treated at call sites:
//   - ConfigMissingError: a credential is absent; the deterministic
//     fallback path is selected, the user never sees a failure
//   - ServiceCallError: a transient external failure; degraded to a
//     no-op (geocoding) or a templated fallback (letter generation)
//   - ValidationError: bad user input; surfaced inline, no other state
//     is touched
//   - StorageError: local persistence failed; logged and swallowed
package errors

import "fmt"

// ConfigMissingError indicates that an optional external credential is
// not configured.
//
// This error is returned when:
//   - GEMINI_API_KEY is empty and a real generation was requested
//   - GOOGLE_CLIENT_ID is empty and a real sign-in was requested
//
// Recovery strategy: select the fallback variant (template generator,
// mock identity provider). Not a failure from the user's perspective.
type ConfigMissingError struct {
	Key string
}

func (e *ConfigMissingError) Error() string {
	return fmt.Sprintf("configuration absent: %s is not set", e.Key)
}

// NewConfigMissingError creates a new config missing error for a key
func NewConfigMissingError(key string) *ConfigMissingError {
	return &ConfigMissingError{Key: key}
}

// ServiceCallError wraps a failed call to an external service.
//
// This error is returned when:
//   - The geocoder returns a non-2xx response or is unreachable
//   - The generative-text service errors, rate limits, or times out
//
// Recovery strategy: degrade silently (geocoding) or fall back to the
// templated letter (generation). Never retried automatically; a retry
// is always a user-initiated repeat of the same action.
type ServiceCallError struct {
	Service string
	Message string
	Err     error
}

func (e *ServiceCallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s call failed: %s: %v", e.Service, e.Message, e.Err)
	}
	return fmt.Sprintf("%s call failed: %s", e.Service, e.Message)
}

// Unwrap returns the wrapped error for error chain inspection
func (e *ServiceCallError) Unwrap() error {
	return e.Err
}

// NewServiceCallError creates a new service call error with context
func NewServiceCallError(service, msg string, err error) *ServiceCallError {
	return &ServiceCallError{Service: service, Message: msg, Err: err}
}

// ValidationError indicates that user-supplied input failed a check.
//
// This error is returned when:
//   - The wizard step gate is not satisfied
//   - An OTP does not match, a password is too short
//   - An uploaded image is malformed or oversized
//
// Recovery strategy: surface the message inline; no in-memory state
// other than the offending field is affected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NewValidationError creates a new validation error for a field
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// StorageError wraps a failure of the local record store.
//
// Recovery strategy: log and swallow. Persistence is best-effort and
// single-user; callers never observe a thrown error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the wrapped error for error chain inspection
func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new storage error with context
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// IsConfigMissing checks if the error is a config missing error
func IsConfigMissing(err error) bool {
	_, ok := err.(*ConfigMissingError)
	return ok
}

// IsServiceCall checks if the error is a service call error
func IsServiceCall(err error) bool {
	_, ok := err.(*ServiceCallError)
	return ok
}

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// IsStorage checks if the error is a storage error
func IsStorage(err error) bool {
	_, ok := err.(*StorageError)
	return ok
}
