package exprutils

import (
	"testing"

	"github.com/google/go-cmp/cmp"
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

// Scenario 1 (spec.md §8): grid A(x), A(x) = A(x-1) + A(x+1). After CSE
// the expression has exactly two leaf loads; counter reports
// adds=1, grid_reads=2.
func TestTrivialAddScenario(t *testing.T) {
	a := expr.NewArena()
	g := model.NewGrid("A", "x")
	left := a.GridPoint(g.Handle(), off("x", -1))
	right := a.GridPoint(g.Handle(), off("x", 1))
	sum := a.Add(left, right)
	if err := g.Define(a, off("x", 0), sum); err != nil {
		t.Fatal(err)
	}
	grids := model.Grids{g}

	counts := CountToAll(a, grids)
	if counts.Adds != 1 {
		t.Errorf("Adds = %d, want 1", counts.Adds)
	}
	if counts.TotalGridReads() != 2 {
		t.Errorf("TotalGridReads = %d, want 2", counts.TotalGridReads())
	}

	changed := RunCSE(a, grids)
	// left and right read different offsets, so CSE should find nothing
	// to merge in this trivial case.
	if changed != 0 {
		t.Errorf("RunCSE changed %d nodes, want 0 (no shared subexpressions)", changed)
	}
}

// Two grids, each read twice, exercises Counts.GridReads as a real map
// rather than a single scalar, where cmp.Diff reports a legible per-key
// breakdown on failure instead of a single bool.
func TestCounterTracksReadsPerGrid(t *testing.T) {
	a := expr.NewArena()
	ga := model.NewGrid("A", "x")
	gb := model.NewGrid("B", "x")
	sum := a.Add(
		a.Add(a.GridPoint(ga.Handle(), off("x", 0)), a.GridPoint(ga.Handle(), off("x", 1))),
		a.Add(a.GridPoint(gb.Handle(), off("x", 0)), a.GridPoint(gb.Handle(), off("x", -1))),
	)
	if err := ga.Define(a, off("x", 0), sum); err != nil {
		t.Fatal(err)
	}
	grids := model.Grids{ga, gb}

	counts := CountToAll(a, grids)
	want := map[string]int{"A": 2, "B": 2}
	if diff := cmp.Diff(want, counts.GridReads); diff != "" {
		t.Errorf("GridReads mismatch (-want +got):\n%s", diff)
	}
}

func TestCseMergesIdenticalReads(t *testing.T) {
	a := expr.NewArena()
	g := model.NewGrid("A", "x")
	r1 := a.GridPoint(g.Handle(), off("x", 1))
	r2 := a.GridPoint(g.Handle(), off("x", 1)) // same logical point, distinct node
	sum := a.Add(r1, r2)
	if err := g.Define(a, off("x", 0), sum); err != nil {
		t.Fatal(err)
	}
	grids := model.Grids{g}

	if n := RunCSE(a, grids); n == 0 {
		t.Fatal("expected CSE to merge the duplicate grid reads")
	}
	eqID, _ := g.EquationAt(off("x", 0))
	rhs := a.RHS(eqID)
	children := a.Children(rhs)
	if children[0] != children[1] {
		t.Fatal("expected both Add operands to share one node after CSE")
	}
}

func TestCseIdempotent(t *testing.T) {
	a := expr.NewArena()
	g := model.NewGrid("A", "x")
	r1 := a.GridPoint(g.Handle(), off("x", 1))
	r2 := a.GridPoint(g.Handle(), off("x", 1))
	sum := a.Add(r1, r2)
	if err := g.Define(a, off("x", 0), sum); err != nil {
		t.Fatal(err)
	}
	grids := model.Grids{g}

	RunCSE(a, grids)
	if n := RunCSE(a, grids); n != 0 {
		t.Errorf("second CSE run changed %d nodes, want 0 (idempotent)", n)
	}
}

func TestCombineFlattensAndCanonicalizes(t *testing.T) {
	a := expr.NewArena()
	g := model.NewGrid("A", "x")
	p1 := a.GridPoint(g.Handle(), off("x", 2))
	p0 := a.GridPoint(g.Handle(), off("x", 1))
	inner := a.Add(p1, a.Const(3))
	outer := a.Add(inner, p0) // (p1 + 3) + p0, unflattened and unsorted

	if err := g.Define(a, off("x", 0), outer); err != nil {
		t.Fatal(err)
	}
	grids := model.Grids{g}

	RunCombine(a, grids)
	eqID, _ := g.EquationAt(off("x", 0))
	rhs := a.RHS(eqID)
	if a.Kind(rhs) != expr.KindAdd {
		t.Fatalf("root kind = %v, want Add", a.Kind(rhs))
	}
	children := a.Children(rhs)
	if len(children) != 3 {
		t.Fatalf("flattened operand count = %d, want 3", len(children))
	}
	for i := 1; i < len(children); i++ {
		if compareNodes(a, children[i-1], children[i]) > 0 {
			t.Fatalf("operands %d and %d are out of canonical order", i-1, i)
		}
	}
}

func TestCombineIdempotent(t *testing.T) {
	a := expr.NewArena()
	g := model.NewGrid("A", "x")
	p1 := a.GridPoint(g.Handle(), off("x", 2))
	p0 := a.GridPoint(g.Handle(), off("x", 1))
	sum := a.Add(a.Add(p1, a.Const(3)), p0)
	if err := g.Define(a, off("x", 0), sum); err != nil {
		t.Fatal(err)
	}
	grids := model.Grids{g}

	RunCombine(a, grids)
	if n := RunCombine(a, grids); n != 0 {
		t.Errorf("second Combine run changed %d nodes, want 0 (idempotent)", n)
	}
}

func TestCombineMulByZeroAnnihilates(t *testing.T) {
	a := expr.NewArena()
	g := model.NewGrid("A", "x")
	p := a.GridPoint(g.Handle(), off("x", 0))
	prod := a.Mul(p, a.Const(0))
	if err := g.Define(a, off("x", 0), prod); err != nil {
		t.Fatal(err)
	}
	grids := model.Grids{g}

	RunCombine(a, grids)
	eqID, _ := g.EquationAt(off("x", 0))
	rhs := a.RHS(eqID)
	if a.Kind(rhs) != expr.KindConst || a.ConstVal(rhs) != 0 {
		t.Fatalf("expected Mul-by-zero to collapse to Const(0), got kind %v", a.Kind(rhs))
	}
}

func TestCombineDropsMulIdentity(t *testing.T) {
	a := expr.NewArena()
	g := model.NewGrid("A", "x")
	p := a.GridPoint(g.Handle(), off("x", 0))
	prod := a.Mul(p, a.Const(1))
	if err := g.Define(a, off("x", 0), prod); err != nil {
		t.Fatal(err)
	}
	grids := model.Grids{g}

	RunCombine(a, grids)
	eqID, _ := g.EquationAt(off("x", 0))
	rhs := a.RHS(eqID)
	if rhs != p {
		t.Fatalf("expected Mul by 1 to collapse to the bare operand")
	}
}

func TestCombineNeverReordersSubOrDiv(t *testing.T) {
	a := expr.NewArena()
	g := model.NewGrid("A", "x")
	hi := a.GridPoint(g.Handle(), off("x", 9))
	lo := a.GridPoint(g.Handle(), off("x", 1))
	diff := a.Sub(hi, lo)
	if err := g.Define(a, off("x", 0), diff); err != nil {
		t.Fatal(err)
	}
	grids := model.Grids{g}

	RunCombine(a, grids)
	eqID, _ := g.EquationAt(off("x", 0))
	rhs := a.RHS(eqID)
	if a.Kind(rhs) != expr.KindSub || a.Left(rhs) != hi || a.Right(rhs) != lo {
		t.Fatal("Combine must not rewrite or reorder a - b")
	}
}
