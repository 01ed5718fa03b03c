package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrFileOpen         = errors.New("can't open file")
	ErrSinkOpen         = errors.New("can't open write file")
	ErrStoreUnavailable = errors.New("store unavailable")
)
