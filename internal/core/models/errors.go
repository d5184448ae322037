package models

import "errors"

var (
	ErrShapeMismatch   = errors.New("shape mismatch")
	ErrMalformedTensor = errors.New("malformed trajectory tensor")
	ErrUnknownField    = errors.New("unknown state field")
)
