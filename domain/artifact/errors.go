package artifact

import "errors"

var (
	// ErrNotFound is returned when no file matches the requested name or prefix
	ErrNotFound = errors.New("file not found")
)
