// Package model holds the Grid/Param/Equation registry populated by client
// stencils while they build the expression DAG, plus the collections and
// grouping rule (findEquations) that downstream passes consume.
package model

import (
	"github.com/rjtobin/yask/internal/expr"
	"github.com/rjtobin/yask/internal/tuple"
	"github.com/rjtobin/yask/internal/yaskerr"
)

// Grid is a named n-dimensional array description: a name, an ordered list
// of dimension names, and a sparse map from offset tuples (relative to the
// current index) to the equation that computes the value stored there.
type Grid struct {
	handle      *expr.GridHandle
	order       []string
	keyToOffset map[string]tuple.IntTuple
	equations   map[string]expr.ID
}

// NewGrid creates a new, empty grid with the given dimension names.
func NewGrid(name string, dims ...string) *Grid {
	dimsCopy := append([]string(nil), dims...)
	return &Grid{
		handle:      &expr.GridHandle{Name: name, Dims: dimsCopy},
		keyToOffset: make(map[string]tuple.IntTuple),
		equations:   make(map[string]expr.ID),
	}
}

// Name returns the grid's name.
func (g *Grid) Name() string { return g.handle.Name }

// Dims returns the grid's declared dimension names.
func (g *Grid) Dims() []string { return g.handle.Dims }

// Handle returns the lightweight identity handle used by expr.GridPoint
// nodes.
func (g *Grid) Handle() *expr.GridHandle { return g.handle }

func offsetKey(t tuple.IntTuple) string {
	return t.Key()
}

func (g *Grid) hasExactDims(offset tuple.IntTuple) bool {
	if offset.Size() != len(g.handle.Dims) {
		return false
	}
	for _, d := range g.handle.Dims {
		if _, ok := offset.Lookup(d); !ok {
			return false
		}
	}
	return true
}

// Define installs the equation "grid(offset) = rhs" at the given absolute
// offset. rhs must already be built against the same arena. Define fails
// if offset does not name exactly the grid's declared dimensions, or if an
// equation is already installed at that offset (spec's "equation
// conflict" error).
func (g *Grid) Define(a *expr.Arena, offset tuple.IntTuple, rhs expr.ID) error {
	if !g.hasExactDims(offset) {
		return yaskerr.Dim("grid " + g.Name() + ": offset " + offset.String() + " does not match declared dimensions")
	}
	key := offsetKey(offset)
	if _, exists := g.equations[key]; exists {
		return yaskerr.Conflict(g.Name(), offset.String())
	}
	lhs := a.GridPoint(g.handle, offset)
	eq := a.Equation(lhs, rhs)
	g.equations[key] = eq
	g.keyToOffset[key] = offset
	g.order = append(g.order, key)
	return nil
}

// EquationAt returns the equation installed at offset, if any.
func (g *Grid) EquationAt(offset tuple.IntTuple) (expr.ID, bool) {
	id, ok := g.equations[offsetKey(offset)]
	return id, ok
}

// NumEquations returns how many offsets have an installed equation.
func (g *Grid) NumEquations() int { return len(g.order) }

// Grids is an ordered collection of grids, in registration order.
type Grids []*Grid

// VisitToFirst calls f once per grid, for its first-installed equation
// only ("for one vector" statistics).
func (gs Grids) VisitToFirst(f func(g *Grid, offset tuple.IntTuple, eq expr.ID)) {
	for _, g := range gs {
		if len(g.order) == 0 {
			continue
		}
		key := g.order[0]
		f(g, g.keyToOffset[key], g.equations[key])
	}
}

// VisitToAll calls f once per installed equation across every grid, in
// grid-registration then per-grid-installation order ("for one cluster"
// statistics, and rewrite passes).
func (gs Grids) VisitToAll(f func(g *Grid, offset tuple.IntTuple, eq expr.ID)) {
	for _, g := range gs {
		for _, key := range g.order {
			f(g, g.keyToOffset[key], g.equations[key])
		}
	}
}

// ReplaceEquation overwrites the equation ID installed at offset on g,
// used by rewrite passes (CSE, Combine) that produce a new root ID for an
// equation's rebuilt DAG.
func (gs Grids) ReplaceEquation(g *Grid, offset tuple.IntTuple, newID expr.ID) {
	key := offsetKey(offset)
	g.equations[key] = newID
}
