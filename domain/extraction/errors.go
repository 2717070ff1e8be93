package extraction

import "errors"

var (
	// ErrSourceRejected is returned when the external source refuses the
	// URL or yields no usable metadata
	ErrSourceRejected = errors.New("source rejected the request")

	// ErrSizeUnknown is returned when a source does not report a size,
	// which admission control treats as a refusal
	ErrSizeUnknown = errors.New("source size is unknown")

	// ErrSizeExceeded is returned when a source reports a size above the
	// configured ceiling
	ErrSizeExceeded = errors.New("source size exceeds the limit")
)
