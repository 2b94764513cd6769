package domain

import "errors"

var (
	// Ingestion errors
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidFormat = errors.New("invalid format")
	ErrParseError    = errors.New("parse error")

	// Persistence errors
	ErrCorruptState  = errors.New("corrupt persisted state")
	ErrSerialization = errors.New("serialization failed")
)
