package analysis

import "errors"

var (
	ErrBadName      = errors.New("analysis: file name does not follow <policy>_<N>agents_<T>steps_<seed>seed.<ext>")
	ErrNameMismatch = errors.New("analysis: recording shape disagrees with its file name")
	ErrNoLoader     = errors.New("analysis: no loader configured")
)
