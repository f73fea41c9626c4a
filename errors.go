package scene

import "github.com/pkg/errors"

// Sentinel error kinds (spec §7). Callers recover the sentinel under
// wrapping context with errors.Cause / errors.Is.
var (
	// ErrInvalidArgument covers a null/zero-value world, a mesh from a
	// different world, or a malformed snapshot header. No state mutation
	// has occurred by the time this is returned.
	ErrInvalidArgument = errors.New("scene: invalid argument")

	// ErrMalformedMesh is returned when a PLY payload's header or body
	// does not match the accepted grammar. The partially built mesh is
	// discarded before this is returned.
	ErrMalformedMesh = errors.New("scene: malformed mesh")

	// ErrIoError is returned when a binary snapshot is truncated or
	// otherwise unreadable. The partially built world is torn down.
	ErrIoError = errors.New("scene: io error")
)

// wrapf is a thin alias kept for symmetry with errors.Wrapf call sites
// across this package; it exists so every wrapping call site reads the
// same way regardless of which file it lives in.
func wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}
