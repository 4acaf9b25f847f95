// Package iso3dfd is the order-8, 25-point isotropic 3-D finite-difference
// reference stencil from spec.md §8 scenario 2: a radius-4 stencil along
// each of x, y, z plus the center point, with one shared coefficient per
// radius (spec's classic "ISO3DFD" kernel, used here purely as a core test
// fixture).
package iso3dfd

import (
	"github.com/rjtobin/yask/internal/expr"
	"github.com/rjtobin/yask/internal/model"
	"github.com/rjtobin/yask/internal/stencil"
	"github.com/rjtobin/yask/internal/tuple"
)

// Order is the stencil's spatial order (2 * Radius).
const Order = 8

// Radius is the number of neighbor taps on either side of center, along
// each axis.
const Radius = Order / 2

// Stencil holds the grid, the per-radius coefficient param, and the
// builder this stencil populates.
type Stencil struct {
	Builder *stencil.Builder
	V       *model.Grid
	Coeff   *model.Param
}

// New declares grid V(x,y,z) and the coefficient param C(r), r in
// [0, Radius], against a fresh builder.
func New() *Stencil {
	b := stencil.New()
	return &Stencil{
		Builder: b,
		V:       b.NewGrid("V", "x", "y", "z"),
		Coeff:   b.NewParam("C", "r"),
	}
}

// Define is a cluster.DefineFunc: at absolute offset (x, y, z), it
// installs the 25-point isotropic update
//
//	V(x,y,z) = C(0)*V(x,y,z) +
//	           sum_{r=1..Radius} C(r) * ( V(x+r,y,z)+V(x-r,y,z)
//	                                    + V(x,y+r,z)+V(x,y-r,z)
//	                                    + V(x,y,z+r)+V(x,y,z-r) )
//
// Each radius's six taps are summed before being multiplied by that
// radius's shared coefficient, matching the original YASK kernel's
// factored form, so only one multiply per unique coefficient is ever
// built (the inner Add is what Combine then flattens/canonicalizes).
func (s *Stencil) Define(offsets tuple.IntTuple) error {
	x, _ := offsets.Lookup("x")
	y, _ := offsets.Lookup("y")
	z, _ := offsets.Lookup("z")
	b := s.Builder

	center := b.At(s.V, stencil.Offset("x", x, "y", y, "z", z))
	coeff0 := b.Coeff(s.Coeff, stencil.Offset("r", 0))
	terms := []expr.ID{b.Mul(coeff0, center)}

	type axisOffset func(delta int) tuple.IntTuple
	axes := []axisOffset{
		func(delta int) tuple.IntTuple { return stencil.Offset("x", x+delta, "y", y, "z", z) },
		func(delta int) tuple.IntTuple { return stencil.Offset("x", x, "y", y+delta, "z", z) },
		func(delta int) tuple.IntTuple { return stencil.Offset("x", x, "y", y, "z", z+delta) },
	}

	for r := 1; r <= Radius; r++ {
		coeff := b.Coeff(s.Coeff, stencil.Offset("r", r))
		var taps []expr.ID
		for _, axis := range axes {
			taps = append(taps, b.At(s.V, axis(r)), b.At(s.V, axis(-r)))
		}
		terms = append(terms, b.Mul(coeff, b.Add(taps...)))
	}

	sum := b.Add(terms...)
	return b.Define(s.V, stencil.Offset("x", x, "y", y, "z", z), sum)
}
