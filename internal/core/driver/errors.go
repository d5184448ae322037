package driver

import "errors"

var (
	ErrAlreadyRunning = errors.New("driver: already running")
	ErrNilDependency  = errors.New("driver: nil world, policy or metric")
	ErrEmptyRecording = errors.New("driver: nothing recorded")
)
