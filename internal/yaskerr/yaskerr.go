// Package yaskerr centralizes the single-diagnostic-line error style used
// throughout yask: fatal conditions (spec.md §7) are reported as one
// error value naming the offending dimension, grid or offset, never as a
// partial, continuing warning. The one fatal condition not reported
// through this package is an expression cycle, on which expr.Rewrite
// panics.
package yaskerr

import "errors"

// Dim reports a dimension-mismatch error: a fold or cluster dimension not
// shared by all grids, or an offset tuple whose dimensions don't match a
// grid's declared dimensions.
func Dim(msg string) error {
	return errors.New("dimension mismatch: " + msg)
}

// Conflict reports a duplicate assignment to the same (grid, offset).
func Conflict(grid, offset string) error {
	return errors.New("equation conflict: " + grid + " already has an equation at " + offset)
}

// Unaligned reports an illegal combination of allow-unaligned-loads with
// more than one folded dimension of length > 1.
func Unaligned(msg string) error {
	return errors.New("unaligned-load conflict: " + msg)
}

// Stencil reports an unknown-stencil or invalid-order caller error.
func Stencil(msg string) error {
	return errors.New("stencil error: " + msg)
}

// Wrap prefixes an error with generation-stage context, matching the
// teacher's "compile failed: <cause>" wrapping.
func Wrap(stage string, err error) error {
	return errors.New(stage + ": " + err.Error())
}
