package exprutils

import (
	"strconv"
	"strings"

	"github.com/rjtobin/yask/internal/expr"
	"github.com/rjtobin/yask/internal/model"
)

// CseVisitor performs common-subexpression elimination by structural value
// numbering: a node's signature is its tag plus its (already-deduplicated)
// operands' identities, so structurally identical subtrees collapse to the
// first-seen node. Because commutative operands must already be in
// canonical order for this to work (two equal sums built in different
// operand order would otherwise get different signatures), CSE is run
// after CombineVisitor in the driver pipeline (and once before, so an
// initial pass can still catch exact syntactic duplicates before
// combining — spec.md §4.3).
//
// Equation nodes are deliberately never merged: their LHS identities name
// a specific grid point and must be preserved even when two equations
// happen to compute identical right-hand sides.
type CseVisitor struct {
	table map[string]expr.ID
}

// NewCSE returns a fresh CseVisitor with an empty value-number table. Reuse
// one instance across every equation in a pass so dedup happens DAG-wide,
// not per equation.
func NewCSE() *CseVisitor {
	return &CseVisitor{table: make(map[string]expr.ID)}
}

func (c *CseVisitor) lookup(sig string, id expr.ID) (expr.ID, bool) {
	if existing, ok := c.table[sig]; ok {
		return existing, existing != id
	}
	c.table[sig] = id
	return id, false
}

func (c *CseVisitor) VisitConst(a *expr.Arena, id expr.ID) (expr.ID, bool) {
	sig := "C:" + strconv.FormatFloat(a.ConstVal(id), 'g', -1, 64)
	return c.lookup(sig, id)
}

func (c *CseVisitor) VisitGridPoint(a *expr.Arena, id expr.ID) (expr.ID, bool) {
	sig := "G:" + a.Grid(id).Name + ":" + a.Offset(id).Key()
	return c.lookup(sig, id)
}

func (c *CseVisitor) VisitParamRef(a *expr.Arena, id expr.ID) (expr.ID, bool) {
	sig := "P:" + a.Param(id).Name + ":" + a.Offset(id).Key()
	return c.lookup(sig, id)
}

func (c *CseVisitor) VisitNeg(a *expr.Arena, id expr.ID) (expr.ID, bool) {
	sig := "N:" + idString(a.Child(id))
	return c.lookup(sig, id)
}

func (c *CseVisitor) VisitCommutative(a *expr.Arena, id expr.ID) (expr.ID, bool) {
	children := a.Children(id)
	parts := make([]string, len(children))
	for i, c2 := range children {
		parts[i] = idString(c2)
	}
	sig := a.Kind(id).String() + ":" + strings.Join(parts, ",")
	return c.lookup(sig, id)
}

func (c *CseVisitor) VisitBinary(a *expr.Arena, id expr.ID) (expr.ID, bool) {
	sig := a.Kind(id).String() + ":" + idString(a.Left(id)) + ":" + idString(a.Right(id))
	return c.lookup(sig, id)
}

// VisitEquation never merges: each equation's identity (its LHS grid
// point) must survive even when its RHS is identical to another
// equation's.
func (c *CseVisitor) VisitEquation(a *expr.Arena, id expr.ID) (expr.ID, bool) {
	return id, false
}

func idString(id expr.ID) string {
	return strconv.Itoa(int(id))
}

// RunCSE applies a shared CseVisitor to every installed equation in
// grids, rewriting Grid equation roots in place, and returns the number
// of nodes CSE replaced.
func RunCSE(a *expr.Arena, grids model.Grids) int {
	cse := NewCSE()
	total := 0
	for _, eq := range model.CollectAll(grids) {
		newID, n := expr.Rewrite(a, cse, eq.ID)
		total += n
		if newID != eq.ID {
			grids.ReplaceEquation(eq.Grid, eq.Offset, newID)
		}
	}
	return total
}
