package surfio

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of
// these, so callers can branch with errors.Is while still seeing the cause.
var (
	// ErrInvalidArgument is returned for an empty path, non-positive target
	// dimensions or an inconsistent surface layout.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDecode is returned when a file cannot be opened or read, or holds
	// a corrupt or unsupported bitstream.
	ErrDecode = errors.New("decode failed")

	// ErrAllocation is returned when a surface or intermediate buffer would
	// exceed the configured size limits.
	ErrAllocation = errors.New("allocation failed")

	// ErrResample is returned when the resize provider rejects a resize.
	ErrResample = errors.New("resample failed")

	// ErrUnsupportedFormat is returned when a save path has an extension
	// with no encoder.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrEncode is returned when the encoder, or writing its output, fails.
	ErrEncode = errors.New("encode failed")
)

// opError wraps cause with the operation, the path when there is one, and the
// error kind.
func opError(op, path string, kind, cause error) error {
	if path == "" {
		return fmt.Errorf("surfio: %s: %w: %w", op, kind, cause)
	}
	return fmt.Errorf("surfio: %s %q: %w: %w", op, path, kind, cause)
}
