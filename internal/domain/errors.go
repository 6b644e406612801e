package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrEmptyReply is returned by a ChatCompleter whose model answered with no text.
	ErrEmptyReply     = errors.New("empty reply")
)
