package model

import (
	"testing"

	"github.com/rjtobin/yask/internal/expr"
	"github.com/rjtobin/yask/internal/tuple"
)

func off(pairs ...interface{}) tuple.IntTuple {
	t := tuple.New()
	for i := 0; i < len(pairs); i += 2 {
		t = t.MustAddDim(pairs[i].(string), pairs[i+1].(int))
	}
	return t
}

func TestGridDefineDimMismatch(t *testing.T) {
	a := expr.NewArena()
	g := NewGrid("B", "x")
	rhs := a.Const(1)
	if err := g.Define(a, off("x", 0, "y", 0), rhs); err == nil {
		t.Fatal("expected dimension mismatch error for offset naming an undeclared dim")
	}
}

func TestGridDefineConflict(t *testing.T) {
	a := expr.NewArena()
	g := NewGrid("A", "x")
	rhs := a.Const(1)
	if err := g.Define(a, off("x", 0), rhs); err != nil {
		t.Fatalf("first define: %v", err)
	}
	if err := g.Define(a, off("x", 0), a.Const(2)); err == nil {
		t.Fatal("expected equation conflict on duplicate offset")
	}
}

// Scenario 5 (spec.md §8): three grids named vel_x, vel_y, stress_xx;
// "-eq v=vel,s=stress" creates two groups, the first containing vel_x and
// vel_y in registration order, the second stress_xx.
func TestFindEquationsGrouping(t *testing.T) {
	a := expr.NewArena()
	velX := NewGrid("vel_x", "x")
	velY := NewGrid("vel_y", "x")
	stressXX := NewGrid("stress_xx", "x")
	for _, g := range []*Grid{velX, velY, stressXX} {
		if err := g.Define(a, off("x", 0), a.Const(0)); err != nil {
			t.Fatalf("define %s: %v", g.Name(), err)
		}
	}
	groups, err := FindEquations(Grids{velX, velY, stressXX}, "v=vel,s=stress")
	if err != nil {
		t.Fatalf("FindEquations: %v", err)
	}
	if len(groups.Names) != 2 {
		t.Fatalf("got %d groups, want 2: %v", len(groups.Names), groups.Names)
	}
	if groups.Names[0] != "v" || groups.Names[1] != "s" {
		t.Fatalf("group order = %v, want [v s]", groups.Names)
	}
	v := groups.ByName["v"]
	if len(v) != 2 || v[0].Grid.Name() != "vel_x" || v[1].Grid.Name() != "vel_y" {
		t.Fatalf("group v = %+v, want vel_x then vel_y", v)
	}
	s := groups.ByName["s"]
	if len(s) != 1 || s[0].Grid.Name() != "stress_xx" {
		t.Fatalf("group s = %+v, want stress_xx", s)
	}
}

func TestFindEquationsDefaultGroup(t *testing.T) {
	a := expr.NewArena()
	g := NewGrid("temperature", "x")
	if err := g.Define(a, off("x", 0), a.Const(0)); err != nil {
		t.Fatal(err)
	}
	groups, err := FindEquations(Grids{g}, "v=vel")
	if err != nil {
		t.Fatal(err)
	}
	if len(groups.Names) != 1 || groups.Names[0] != DefaultGroup {
		t.Fatalf("groups = %v, want [%s]", groups.Names, DefaultGroup)
	}
}
