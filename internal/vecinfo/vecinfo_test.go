package vecinfo

import (
	"testing"

	"github.com/rjtobin/yask/internal/expr"
	"github.com/rjtobin/yask/internal/model"
	"github.com/rjtobin/yask/internal/tuple"
)

func off(pairs ...interface{}) tuple.IntTuple {
	t := tuple.New()
	for i := 0; i < len(pairs); i += 2 {
		t = t.MustAddDim(pairs[i].(string), pairs[i+1].(int))
	}
	return t
}

// Scenario 1 (spec.md §8): grid A(x), A(x) = A(x-1) + A(x+1), fold x=4.
// Neither read lands on a fold boundary, so each needs exactly two aligned
// blocks and a single align step; across the whole equation the three
// distinct blocks -1, 0, 1 are loaded once each.
func TestUnalignedReadsNeedTwoBlocks(t *testing.T) {
	a := expr.NewArena()
	g := model.NewGrid("A", "x")
	left := a.GridPoint(g.Handle(), off("x", -1))
	right := a.GridPoint(g.Handle(), off("x", 1))
	sum := a.Add(left, right)
	if err := g.Define(a, off("x", 0), sum); err != nil {
		t.Fatal(err)
	}
	grids := model.Grids{g}

	fold := tuple.New().MustAddDim("x", 4)
	an, err := New(fold, false, true)
	if err != nil {
		t.Fatal(err)
	}
	an.Analyze(a, grids)

	for _, id := range []expr.ID{left, right} {
		p, ok := an.PlanFor(id)
		if !ok {
			t.Fatalf("no plan for read at %v", a.Offset(id))
		}
		if len(p.Blocks) != 2 {
			t.Errorf("offset %v: got %d blocks, want 2", a.Offset(id), len(p.Blocks))
		}
		if len(p.AlignSteps) != 1 {
			t.Errorf("offset %v: got %d align steps, want 1", a.Offset(id), len(p.AlignSteps))
		}
	}
	if got := len(an.Blocks()); got != 3 {
		t.Errorf("distinct blocks loaded = %d, want 3 (home block 0 shared by both reads)", got)
	}
}

// An aligned read (offset a multiple of the fold length) needs exactly one
// block and no align steps.
func TestAlignedReadNeedsOneBlock(t *testing.T) {
	a := expr.NewArena()
	g := model.NewGrid("A", "x")
	read := a.GridPoint(g.Handle(), off("x", 4))
	if err := g.Define(a, off("x", 0), read); err != nil {
		t.Fatal(err)
	}
	grids := model.Grids{g}

	fold := tuple.New().MustAddDim("x", 4)
	an, err := New(fold, false, true)
	if err != nil {
		t.Fatal(err)
	}
	an.Analyze(a, grids)

	p, ok := an.PlanFor(read)
	if !ok {
		t.Fatal("no plan computed")
	}
	if len(p.Blocks) != 1 || len(p.AlignSteps) != 0 {
		t.Errorf("aligned read got %d blocks, %d align steps; want 1, 0", len(p.Blocks), len(p.AlignSteps))
	}
}

// A 2-D fold with an unaligned offset along both folded dims needs the full
// four-block Cartesian product and one align step per participating dim, in
// declaration order (the gather-style composition, spec.md §4.7 point 3).
func TestTwoDimUnalignedReadGathersFourBlocks(t *testing.T) {
	a := expr.NewArena()
	g := model.NewGrid("A", "x", "y")
	read := a.GridPoint(g.Handle(), off("x", 1, "y", 1))
	if err := g.Define(a, off("x", 0, "y", 0), read); err != nil {
		t.Fatal(err)
	}
	grids := model.Grids{g}

	fold := tuple.New().MustAddDim("x", 4).MustAddDim("y", 2)
	an, err := New(fold, false, true)
	if err != nil {
		t.Fatal(err)
	}
	an.Analyze(a, grids)

	p, ok := an.PlanFor(read)
	if !ok {
		t.Fatal("no plan computed")
	}
	if len(p.Blocks) != 4 {
		t.Fatalf("got %d blocks, want 4", len(p.Blocks))
	}
	if len(p.AlignSteps) != 2 {
		t.Fatalf("got %d align steps, want 2 (one per participating dim)", len(p.AlignSteps))
	}
	if p.AlignSteps[0].Dim != "x" || p.AlignSteps[1].Dim != "y" {
		t.Errorf("align steps not in declaration order: got %v", p.AlignSteps)
	}
}

// Scenario 4 (spec.md §8): allow-unaligned-loads with two folded dims of
// length > 1 is a hard error at construction time.
func TestAllowUnalignedRejectsMultiDimFold(t *testing.T) {
	fold := tuple.New().MustAddDim("x", 4).MustAddDim("y", 2)
	if _, err := New(fold, true, true); err == nil {
		t.Fatal("expected an error enabling allow-unaligned-loads with two folded dims of length > 1")
	}
}

// With a single folded dim, allow-unaligned-loads is accepted and an
// unaligned read is satisfied by a single unaligned load rather than an
// aligned-block pair.
func TestAllowUnalignedAcceptsSingleFoldedDim(t *testing.T) {
	a := expr.NewArena()
	g := model.NewGrid("A", "x")
	read := a.GridPoint(g.Handle(), off("x", 1))
	if err := g.Define(a, off("x", 0), read); err != nil {
		t.Fatal(err)
	}
	grids := model.Grids{g}

	fold := tuple.New().MustAddDim("x", 4)
	an, err := New(fold, true, true)
	if err != nil {
		t.Fatal(err)
	}
	an.Analyze(a, grids)

	p, ok := an.PlanFor(read)
	if !ok {
		t.Fatal("no plan computed")
	}
	if !p.Unaligned {
		t.Error("expected the read to be satisfied by a single unaligned load")
	}
	if len(p.Blocks) != 0 {
		t.Errorf("unaligned read should register no aligned blocks, got %d", len(p.Blocks))
	}
}

// Scenario 2 (spec.md §8): a 25-point 3-D stencil over a single grid
// produces 25 distinct planned reads, each covered by the analyzer.
func TestIso3dfdLikeStencilPlansEveryRead(t *testing.T) {
	a := expr.NewArena()
	g := model.NewGrid("V", "x", "y", "z")

	var taps []expr.ID
	for _, d := range []string{"x", "y", "z"} {
		for r := -4; r <= 4; r++ {
			if r == 0 {
				continue
			}
			taps = append(taps, a.GridPoint(g.Handle(), off("x", 0, "y", 0, "z", 0).SetVal(d, r)))
		}
	}
	taps = append(taps, a.GridPoint(g.Handle(), off("x", 0, "y", 0, "z", 0)))
	if len(taps) != 25 {
		t.Fatalf("test setup: built %d taps, want 25", len(taps))
	}
	sum := a.Add(taps...)
	if err := g.Define(a, off("x", 0, "y", 0, "z", 0), sum); err != nil {
		t.Fatal(err)
	}
	grids := model.Grids{g}

	fold := tuple.New().MustAddDim("x", 4).MustAddDim("y", 2)
	an, err := New(fold, false, true)
	if err != nil {
		t.Fatal(err)
	}
	an.Analyze(a, grids)

	for _, id := range taps {
		if _, ok := an.PlanFor(id); !ok {
			t.Errorf("no plan computed for read at %v", a.Offset(id))
		}
	}
}
