package exprutils

import (
	"sort"
	"strings"

	"github.com/rjtobin/yask/internal/expr"
	"github.com/rjtobin/yask/internal/model"
	"github.com/rjtobin/yask/internal/tuple"
)

// kindRank fixes the first tier of the canonical total order over
// operands: variant tag first (spec.md §4.4). The exact numbering is
// arbitrary but must be stable across a generation run.
func kindRank(k expr.Kind) int {
	switch k {
	case expr.KindConst:
		return 0
	case expr.KindGridPoint:
		return 1
	case expr.KindParamRef:
		return 2
	case expr.KindNeg:
		return 3
	case expr.KindAdd:
		return 4
	case expr.KindMul:
		return 5
	case expr.KindSub:
		return 6
	case expr.KindDiv:
		return 7
	default:
		return 8
	}
}

// compareNodes implements the total order CombineVisitor sorts operands
// by: variant tag, then literal value for consts, then grid/param name
// (with offsets lexicographically compared), then recursively into
// children. Ties (structurally indistinguishable subtrees) compare equal;
// sort.SliceStable preserves their relative order in that case.
func compareNodes(a *expr.Arena, x, y expr.ID) int {
	kx, ky := a.Kind(x), a.Kind(y)
	if rx, ry := kindRank(kx), kindRank(ky); rx != ry {
		return rx - ry
	}
	switch kx {
	case expr.KindConst:
		vx, vy := a.ConstVal(x), a.ConstVal(y)
		switch {
		case vx < vy:
			return -1
		case vx > vy:
			return 1
		default:
			return 0
		}
	case expr.KindGridPoint:
		if c := strings.Compare(a.Grid(x).Name, a.Grid(y).Name); c != 0 {
			return c
		}
		return tuple.Compare(a.Offset(x), a.Offset(y))
	case expr.KindParamRef:
		if c := strings.Compare(a.Param(x).Name, a.Param(y).Name); c != 0 {
			return c
		}
		return tuple.Compare(a.Offset(x), a.Offset(y))
	case expr.KindNeg:
		return compareNodes(a, a.Child(x), a.Child(y))
	case expr.KindAdd, expr.KindMul:
		return compareChildLists(a, a.Children(x), a.Children(y))
	case expr.KindSub, expr.KindDiv:
		if c := compareNodes(a, a.Left(x), a.Left(y)); c != 0 {
			return c
		}
		return compareNodes(a, a.Right(x), a.Right(y))
	default:
		return 0
	}
}

func compareChildLists(a *expr.Arena, xs, ys []expr.ID) int {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	for i := 0; i < n; i++ {
		if c := compareNodes(a, xs[i], ys[i]); c != 0 {
			return c
		}
	}
	return len(xs) - len(ys)
}

// CombineVisitor flattens nested same-operator Add/Mul trees into a single
// n-ary node, sorts operands into canonical order, folds constant
// operands together, drops the operator's identity element, and
// short-circuits a Mul with a zero constant operand to that constant.
// Subtraction and division are left untouched (spec.md §4.4: the
// generator preserves them as written).
type CombineVisitor struct {
	expr.BaseVisitor
}

// NewCombine returns a fresh CombineVisitor.
func NewCombine() *CombineVisitor { return &CombineVisitor{} }

func (cv *CombineVisitor) VisitCommutative(a *expr.Arena, id expr.ID) (expr.ID, bool) {
	kind := a.Kind(id)
	children := a.Children(id)

	var flat []expr.ID
	for _, c := range children {
		if a.Kind(c) == kind {
			flat = append(flat, a.Children(c)...)
		} else {
			flat = append(flat, c)
		}
	}

	var (
		haveConst    bool
		constVal     float64
		constCount   int
		firstConstID expr.ID
		nonConst     []expr.ID
	)
	for _, c := range flat {
		if a.Kind(c) == expr.KindConst {
			v := a.ConstVal(c)
			constCount++
			if !haveConst {
				haveConst, constVal, firstConstID = true, v, c
			} else if kind == expr.KindAdd {
				constVal += v
			} else {
				constVal *= v
			}
		} else {
			nonConst = append(nonConst, c)
		}
	}

	// constNode returns the node to use for the folded constant value v.
	// When exactly one constant contributed to it, nothing was actually
	// folded (there was only ever one value to begin with), so the
	// original node's identity is reused rather than allocating a fresh
	// Const: allocating unconditionally would make a pass with nothing
	// left to fold still report a change on every run, breaking
	// Combine's idempotence (spec.md §8).
	constNode := func(v float64) expr.ID {
		if constCount == 1 {
			return firstConstID
		}
		return a.Const(v)
	}

	if kind == expr.KindMul && haveConst && constVal == 0 {
		return finishCommutative(a, id, children, []expr.ID{constNode(0)})
	}

	identity := 0.0
	if kind == expr.KindMul {
		identity = 1.0
	}
	keepConst := haveConst && constVal != identity
	if !keepConst && len(nonConst) == 0 {
		// Every operand canceled to the identity; the node's value is
		// the identity itself (e.g. Add() -> 0, Mul() -> 1).
		v := identity
		if haveConst {
			v = constVal
		}
		return finishCommutative(a, id, children, []expr.ID{constNode(v)})
	}

	operands := append([]expr.ID(nil), nonConst...)
	if keepConst {
		operands = append(operands, constNode(constVal))
	}
	sort.SliceStable(operands, func(i, j int) bool {
		return compareNodes(a, operands[i], operands[j]) < 0
	})

	return finishCommutative(a, id, children, operands)
}

func finishCommutative(a *expr.Arena, id expr.ID, original, operands []expr.ID) (expr.ID, bool) {
	if len(operands) == 1 {
		return operands[0], true
	}
	if sameIDs(original, operands) {
		return id, false
	}
	return a.Rebuild(id, operands...), true
}

func sameIDs(x, y []expr.ID) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// RunCombine applies a fresh CombineVisitor to every installed equation in
// grids, rewriting Grid equation roots in place. It returns the total
// number of nodes rewritten.
func RunCombine(a *expr.Arena, grids model.Grids) int {
	cv := NewCombine()
	total := 0
	for _, eq := range model.CollectAll(grids) {
		newID, n := expr.Rewrite(a, cv, eq.ID)
		total += n
		if newID != eq.ID {
			grids.ReplaceEquation(eq.Grid, eq.Offset, newID)
		}
	}
	return total
}
