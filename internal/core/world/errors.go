package world

import "errors"

var (
	ErrInvalidVehicleCount = errors.New("vehicle count must be positive")
	ErrNotInitialized      = errors.New("world has no vehicles; call InitVehicles first")
	ErrActionShape         = errors.New("action count does not match vehicle count")
	ErrUnknownBoundary     = errors.New("unknown boundary mode")
)
