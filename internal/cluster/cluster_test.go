package cluster

import (
	"testing"

	"github.com/rjtobin/yask/internal/model"
	"github.com/rjtobin/yask/internal/stencil/examples/trivialadd"
	"github.com/rjtobin/yask/internal/tuple"
)

// Scenario 6 (spec.md §8): a 2x1 cluster with fold x=4 installs equations
// at absolute offsets x=0 and x=4.
func TestExpandClusterTwoByOne(t *testing.T) {
	st := trivialadd.New()
	fold := tuple.New().MustAddDim("x", 4)
	clusterShape := tuple.New().MustAddDim("x", 2)

	if err := Expand(st.Builder.Grids, fold, clusterShape, st.Define); err != nil {
		t.Fatal(err)
	}

	for _, want := range []int{0, 4} {
		off := tuple.New().MustAddDim("x", want)
		if _, ok := st.A.EquationAt(off); !ok {
			t.Errorf("expected an equation installed at x=%d", want)
		}
	}
	if got := st.A.NumEquations(); got != 2 {
		t.Errorf("installed %d equations, want 2", got)
	}
}

// Scenario 3 (spec.md §8): a fold shape naming a dimension absent from a
// grid is a fatal error, not a silent no-op.
func TestExpandRejectsFoldDimNotInGrid(t *testing.T) {
	grid := model.NewGrid("B", "x")
	grids := model.Grids{grid}
	fold := tuple.New().MustAddDim("y", 4)
	clusterShape := tuple.New().MustAddDim("x", 1)

	err := Expand(grids, fold, clusterShape, func(offsets tuple.IntTuple) error {
		t.Fatal("define should not be invoked when fold validation fails")
		return nil
	})
	if err == nil {
		t.Fatal("expected an error for a fold dimension absent from grid B")
	}
}
