package recording

import "errors"

var (
	ErrCorrupt = errors.New("recording: corrupt file")
	ErrSchema  = errors.New("recording: unexpected schema")
)
