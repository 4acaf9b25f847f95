// Package trivialadd is the minimal reference stencil from spec.md §8
// scenario 1: a single 1-D grid A with A(x) = A(x-1) + A(x+1). It exists
// purely as a test fixture for the core passes and the vector-fold
// analyzer, not as a product-facing stencil library entry.
package trivialadd

import (
	"github.com/rjtobin/yask/internal/model"
	"github.com/rjtobin/yask/internal/stencil"
	"github.com/rjtobin/yask/internal/tuple"
)

// Stencil holds the grid and builder this stencil populates.
type Stencil struct {
	Builder *stencil.Builder
	A       *model.Grid
}

// New declares grid A(x) against a fresh builder.
func New() *Stencil {
	b := stencil.New()
	return &Stencil{Builder: b, A: b.NewGrid("A", "x")}
}

// Define is a cluster.DefineFunc: at absolute offset x, it installs
// A(x) = A(x-1) + A(x+1).
func (s *Stencil) Define(offsets tuple.IntTuple) error {
	x, _ := offsets.Lookup("x")
	left := s.Builder.At(s.A, stencil.Offset("x", x-1))
	right := s.Builder.At(s.A, stencil.Offset("x", x+1))
	sum := s.Builder.Add(left, right)
	return s.Builder.Define(s.A, stencil.Offset("x", x), sum)
}
