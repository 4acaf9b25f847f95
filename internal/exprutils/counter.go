// Package exprutils implements the analytic and rewriting visitors that
// sit between AST construction and the vector-fold analyzer: Counter
// (operator/term statistics), CseVisitor (common-subexpression elimination)
// and CombineVisitor (associativity flattening plus commutative
// canonicalization).
package exprutils

import (
	"fmt"

	"github.com/rjtobin/yask/internal/expr"
	"github.com/rjtobin/yask/internal/model"
)

// Counts accumulates operator and term statistics over an expression DAG.
// Each distinct node is counted once, regardless of how many parents share
// it (spec.md §4.5).
type Counts struct {
	GridReads   map[string]int
	gridOrder   []string
	ParamReads  int
	Adds        int
	Muls        int
	Subs        int
	Divs        int
	Negs        int
	FPOps       int
}

// GridNames returns the grids read, in first-encountered order.
func (c *Counts) GridNames() []string { return append([]string(nil), c.gridOrder...) }

// TotalGridReads sums read counts across all grids.
func (c *Counts) TotalGridReads() int {
	total := 0
	for _, n := range c.gridOrder {
		total += c.GridReads[n]
	}
	return total
}

// String renders the diagnostic form used by spec.md's literal test
// scenarios, e.g. "adds=1, muls=0, subs=0, divs=0, negs=0, param_reads=0,
// grid_reads=2, fp_ops=1".
func (c *Counts) String() string {
	return fmt.Sprintf(
		"adds=%d, muls=%d, subs=%d, divs=%d, negs=%d, param_reads=%d, grid_reads=%d, fp_ops=%d",
		c.Adds, c.Muls, c.Subs, c.Divs, c.Negs, c.ParamReads, c.TotalGridReads(), c.FPOps,
	)
}

// Counter walks one or more equation DAGs and accumulates Counts. A single
// Counter instance shares its visited-set across every equation it is
// given, so a grid read shared by two equations (a node reachable from
// both roots) is still counted once overall.
type Counter struct {
	counts  Counts
	visited map[expr.ID]bool
}

// NewCounter returns a Counter with empty accumulated counts.
func NewCounter() *Counter {
	return &Counter{
		counts:  Counts{GridReads: make(map[string]int)},
		visited: make(map[expr.ID]bool),
	}
}

// Counts returns the statistics accumulated so far.
func (c *Counter) Counts() *Counts { return &c.counts }

// Count walks the equation rooted at id, pre-order, visiting each
// not-yet-seen node exactly once.
func (c *Counter) Count(a *expr.Arena, id expr.ID) {
	if c.visited[id] {
		return
	}
	c.visited[id] = true

	switch a.Kind(id) {
	case expr.KindConst:
	case expr.KindGridPoint:
		name := a.Grid(id).Name
		if _, ok := c.counts.GridReads[name]; !ok {
			c.counts.gridOrder = append(c.counts.gridOrder, name)
		}
		c.counts.GridReads[name]++
	case expr.KindParamRef:
		c.counts.ParamReads++
	case expr.KindNeg:
		c.counts.Negs++
		c.counts.FPOps++
		c.Count(a, a.Child(id))
		return
	case expr.KindAdd, expr.KindMul:
		children := a.Children(id)
		if a.Kind(id) == expr.KindAdd {
			c.counts.Adds++
		} else {
			c.counts.Muls++
		}
		if n := len(children); n > 1 {
			c.counts.FPOps += n - 1
		}
		for _, ch := range children {
			c.Count(a, ch)
		}
		return
	case expr.KindSub, expr.KindDiv:
		if a.Kind(id) == expr.KindSub {
			c.counts.Subs++
		} else {
			c.counts.Divs++
		}
		c.counts.FPOps++
		c.Count(a, a.Left(id))
		c.Count(a, a.Right(id))
		return
	case expr.KindEquation:
		// The LHS names the write target, not a read; only the RHS
		// contributes to read/operator statistics.
		c.Count(a, a.RHS(id))
		return
	}
}

// CountToFirst counts exactly one representative equation per grid ("for
// one vector" statistics).
func CountToFirst(a *expr.Arena, grids model.Grids) *Counts {
	c := NewCounter()
	for _, eq := range model.CollectFirst(grids) {
		c.Count(a, eq.ID)
	}
	return c.Counts()
}

// CountToAll counts every installed equation across every grid ("for one
// cluster" statistics, and post-optimization comparison).
func CountToAll(a *expr.Arena, grids model.Grids) *Counts {
	c := NewCounter()
	for _, eq := range model.CollectAll(grids) {
		c.Count(a, eq.ID)
	}
	return c.Counts()
}
