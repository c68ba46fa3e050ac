package session

import "errors"

var (
	// ErrConfiguration wraps every invalid-setting error returned while the
	// session subsystem is being assembled.
	ErrConfiguration = errors.New("session.configuration")

	// ErrNoSecret indicates the signing secret is missing
	ErrNoSecret = errors.New("session.no_secret")

	// ErrNotDirectory indicates the file backend path is not a directory
	ErrNotDirectory = errors.New("session.not_directory")

	// ErrUnknownBackend indicates no factory is registered under a backend name
	ErrUnknownBackend = errors.New("session.unknown_backend")

	// ErrUnknownSerializer indicates an unsupported serializer name
	ErrUnknownSerializer = errors.New("session.unknown_serializer")

	// ErrDecode indicates a stored record could not be decoded or its
	// integrity signature did not verify
	ErrDecode = errors.New("session.decode")

	// ErrMalformedRecord indicates a decoded record does not have the
	// (renewed, created, state) shape
	ErrMalformedRecord = errors.New("session.malformed_record")

	// ErrInvalidKey indicates a backend was handed an identifier it cannot store
	ErrInvalidKey = errors.New("session.invalid_key")

	// ErrNoLifecycle indicates Open was called outside of Middleware
	ErrNoLifecycle = errors.New("session.no_lifecycle")

	// ErrPanic marks a request whose handler panicked
	ErrPanic = errors.New("session.handler_panic")

	// ErrServerError marks a request answered with a 5xx status
	ErrServerError = errors.New("session.server_error")
)
