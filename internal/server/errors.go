package server

import "errors"

var (
	ErrServerClosed         = errors.New("server is closed")
	ErrServerNotRunning     = errors.New("server is not running")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrMaxClientsReached    = errors.New("maximum clients reached")
	ErrNoSnapshot           = errors.New("no snapshot published yet")
	ErrListenerFailed       = errors.New("failed to create listener")
)
