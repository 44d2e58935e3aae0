package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNoSchema      = errors.New("no input schema defined")
	ErrNotFrozen     = errors.New("dictionary not frozen")
	ErrValueType     = errors.New("unexpected value type")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNotFound      = errors.New("not found")
)
