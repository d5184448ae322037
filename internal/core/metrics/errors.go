package metrics

import (
	"errors"

	"github.com/zeusync/swarmsim/internal/core/models"
)

var (
	// ErrShapeMismatch is shared with the models package so callers can test
	// for it regardless of which layer detected the mismatch.
	ErrShapeMismatch = models.ErrShapeMismatch

	ErrOutOfRange    = errors.New("value outside [0, 1]")
	ErrInvalidBins   = errors.New("bin count must be positive")
	ErrUnknownMetric = errors.New("unknown metric")
)
