package expr

import (
	"testing"

	"github.com/rjtobin/yask/internal/tuple"
)

func TestRewriteVisitsSharedNodeOnce(t *testing.T) {
	a := NewArena()
	leaf := a.Const(1)
	sum := a.Add(leaf, leaf) // leaf shared by both operands

	calls := 0
	v := &countingVisitor{onConst: func() { calls++ }}
	_, _ = Rewrite(a, v, sum)
	if calls != 1 {
		t.Errorf("leaf visited %d times, want 1", calls)
	}
}

func TestRewriteRebuildsOnChildChange(t *testing.T) {
	a := NewArena()
	c1 := a.Const(1)
	neg := a.Neg(c1)

	v := &replaceConstVisitor{from: c1, to: a.Const(42)}
	newID, changes := Rewrite(a, v, neg)
	if changes == 0 {
		t.Fatal("expected at least one change")
	}
	if a.Kind(newID) != KindNeg {
		t.Fatalf("root kind = %v, want Neg", a.Kind(newID))
	}
	if got := a.ConstVal(a.Child(newID)); got != 42 {
		t.Fatalf("rebuilt Neg child = %v, want 42", got)
	}
}

type countingVisitor struct {
	BaseVisitor
	onConst func()
}

func (v *countingVisitor) VisitConst(a *Arena, id ID) (ID, bool) {
	v.onConst()
	return id, false
}

type replaceConstVisitor struct {
	BaseVisitor
	from, to ID
}

func (v *replaceConstVisitor) VisitConst(a *Arena, id ID) (ID, bool) {
	if id == v.from {
		return v.to, true
	}
	return id, false
}

func TestGridPointOffsetRoundtrip(t *testing.T) {
	a := NewArena()
	g := &GridHandle{Name: "A", Dims: []string{"x", "y"}}
	off := tuple.New().MustAddDim("x", 1).MustAddDim("y", -2)
	id := a.GridPoint(g, off)
	if a.Grid(id) != g {
		t.Fatal("grid handle identity not preserved")
	}
	if !a.Offset(id).Equal(off) {
		t.Fatal("offset not preserved")
	}
}
