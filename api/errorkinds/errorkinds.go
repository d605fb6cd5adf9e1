package errorkinds

import "errors"

var (
	// ErrNotConfigured is returned when a query is made before an application handle is configured.
	ErrNotConfigured = errors.New("presence detector is not configured")

	// ErrDeviceQueryFailed is returned when the platform audio service could not answer a query.
	// It is distinct from a negative answer.
	ErrDeviceQueryFailed = errors.New("audio device query failed")

	// ErrServiceUnavailable is returned by handles that cannot reach the platform audio service.
	ErrServiceUnavailable = errors.New("audio service is unavailable")

	ErrNotSupported    = errors.New("operation is not supported")
	ErrSessionNotExist = errors.New("session does not exist")
	ErrSessionExists   = errors.New("session is already running")
	ErrSessionStop     = errors.New("session was stopped")
	ErrMethodTimeout   = errors.New("method call timed out")
	ErrMethodCall      = errors.New("method call failed")
)
