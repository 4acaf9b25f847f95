// Package cluster implements the cluster expander: it scans every point of
// a cluster shape and, at each point, invokes the client stencil's Define
// callback with the absolute offset that point corresponds to, so that one
// cluster pass installs one assignment per (grid, cluster point, output
// lane) across every grid the stencil touches (spec.md §4.6).
package cluster

import (
	"github.com/rjtobin/yask/internal/model"
	"github.com/rjtobin/yask/internal/tuple"
	"github.com/rjtobin/yask/internal/yaskerr"
)

// DefineFunc is the client stencil's AST-builder entry point: given an
// absolute offset tuple (spanning the union of every grid's declared
// dimensions), it installs zero or more grid equations via Grid.Define.
type DefineFunc func(offsets tuple.IntTuple) error

// Expand scans every point of clusterLengths (in the process-wide default
// traversal order) and, at each point cp, computes offsets = cp ⊙
// foldLengths, extends the result with 0 for any grid dimension not
// already present in it, and invokes define once per point.
//
// Both foldLengths and clusterLengths must name only dimensions present in
// every grid in grids (spec.md §3); Expand validates this before scanning
// a single point. A Define call that reinstalls an existing (grid, offset)
// entry surfaces as a fatal equation conflict (propagated from
// Grid.Define) and aborts the scan.
func Expand(grids model.Grids, foldLengths, clusterLengths tuple.IntTuple, define DefineFunc) error {
	if err := validateDims(grids, foldLengths, "fold"); err != nil {
		return err
	}
	if err := validateDims(grids, clusterLengths, "cluster"); err != nil {
		return err
	}

	unionDims := unionGridDims(grids)

	var outerErr error
	clusterLengths.VisitAllPointsDefault(func(cp tuple.IntTuple) {
		if outerErr != nil {
			return
		}
		offsets := cp.MultElements(foldLengths)
		offsets = extendWithZero(offsets, unionDims)
		if err := define(offsets); err != nil {
			outerErr = err
		}
	})
	return outerErr
}

// validateDims enforces that every dimension named by shape appears in
// every grid's declared dimensions (spec.md §3's "fold and cluster shapes
// name only dimensions present in all grids" invariant). shapeKind is
// "fold" or "cluster", used only for the diagnostic.
func validateDims(grids model.Grids, shape tuple.IntTuple, shapeKind string) error {
	for _, d := range shape.DimNames() {
		for _, g := range grids {
			if !hasDim(g.Dims(), d) {
				return yaskerr.Dim(shapeKind + " dimension " + d + " is not present in grid " + g.Name())
			}
		}
	}
	return nil
}

func hasDim(dims []string, name string) bool {
	for _, d := range dims {
		if d == name {
			return true
		}
	}
	return false
}

func unionGridDims(grids model.Grids) []string {
	var out []string
	seen := make(map[string]bool)
	for _, g := range grids {
		for _, d := range g.Dims() {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	return out
}

func extendWithZero(offsets tuple.IntTuple, unionDims []string) tuple.IntTuple {
	out := offsets
	for _, d := range unionDims {
		if _, ok := out.Lookup(d); !ok {
			out = out.SetVal(d, 0)
		}
	}
	return out
}
