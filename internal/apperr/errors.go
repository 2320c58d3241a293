// Package apperr defines the sentinel errors shared across Daybook layers.
package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidFilename = errors.New("invalid filename")
	ErrUnauthorized    = errors.New("unauthorized")
)
