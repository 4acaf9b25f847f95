// Package stencil is the client-facing AST-builder surface: the small set
// of functions a stencil definition calls to declare grids and params and
// assemble arithmetic expressions over them. Go has no operator
// overloading, so the arithmetic operators spec.md's builder exposes as
// `+ - * /` are plain functions here (Add, Sub, Mul, Div, Neg, C for
// constant coercion).
package stencil

import (
	"github.com/rjtobin/yask/internal/expr"
	"github.com/rjtobin/yask/internal/model"
	"github.com/rjtobin/yask/internal/tuple"
)

// Builder owns one arena and the grid/param registry a stencil populates
// while it runs. A stencil definition constructs one Builder, declares its
// grids and params against it, and is driven by the cluster expander
// through repeated calls to a DefineFunc closed over this Builder.
type Builder struct {
	Arena  *expr.Arena
	Grids  model.Grids
	Params model.Params
}

// New returns an empty Builder with a fresh arena.
func New() *Builder {
	return &Builder{Arena: expr.NewArena()}
}

// NewGrid declares a grid and registers it on the builder.
func (b *Builder) NewGrid(name string, dims ...string) *model.Grid {
	g := model.NewGrid(name, dims...)
	b.Grids = append(b.Grids, g)
	return g
}

// NewParam declares a param and registers it on the builder.
func (b *Builder) NewParam(name string, dims ...string) *model.Param {
	p := model.NewParam(name, dims...)
	b.Params = append(b.Params, p)
	return p
}

// C allocates a floating-point literal node.
func (b *Builder) C(v float64) expr.ID { return b.Arena.Const(v) }

// At reads grid g at the given absolute offset.
func (b *Builder) At(g *model.Grid, offset tuple.IntTuple) expr.ID {
	return b.Arena.GridPoint(g.Handle(), offset)
}

// Coeff reads param p at the given index.
func (b *Builder) Coeff(p *model.Param, index tuple.IntTuple) expr.ID {
	return b.Arena.ParamRef(p.Handle(), index)
}

// Add, Sub, Mul, Div and Neg build the corresponding arithmetic nodes.
func (b *Builder) Add(xs ...expr.ID) expr.ID { return b.Arena.Add(xs...) }
func (b *Builder) Mul(xs ...expr.ID) expr.ID { return b.Arena.Mul(xs...) }
func (b *Builder) Sub(x, y expr.ID) expr.ID  { return b.Arena.Sub(x, y) }
func (b *Builder) Div(x, y expr.ID) expr.ID  { return b.Arena.Div(x, y) }
func (b *Builder) Neg(x expr.ID) expr.ID     { return b.Arena.Neg(x) }

// Define installs "g(offset) = rhs", matching Grid.Define's contract.
func (b *Builder) Define(g *model.Grid, offset tuple.IntTuple, rhs expr.ID) error {
	return g.Define(b.Arena, offset, rhs)
}

// Offset is a convenience constructor for a single-dim offset tuple,
// used throughout the bundled example stencils.
func Offset(pairs ...interface{}) tuple.IntTuple {
	t := tuple.New()
	for i := 0; i < len(pairs); i += 2 {
		t = t.MustAddDim(pairs[i].(string), pairs[i+1].(int))
	}
	return t
}
