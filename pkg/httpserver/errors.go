package httpserver

import "errors"

var (
	// ErrStart indicates that the server failed to start listening or serving
	ErrStart = errors.New("httpserver.start_failed")
	// ErrShutdown indicates that graceful shutdown did not complete in time
	ErrShutdown = errors.New("httpserver.shutdown_failed")
	// ErrAlreadyRunning indicates Run was called twice on the same Server
	ErrAlreadyRunning = errors.New("httpserver.already_running")
)
