// Package pseudo implements the one concrete emit.Gen-style printer the
// core ships: a readable pseudo-code rendering of an optimized,
// vector-fold-annotated equation DAG, used by spec.md §8's literal test
// scenarios and as a runnable demonstration that the analyzer's plans are
// correct. It is not a code generator for any real ISA (those printers
// are explicitly out of scope).
package pseudo

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rjtobin/yask/internal/cppintrin"
	"github.com/rjtobin/yask/internal/expr"
	"github.com/rjtobin/yask/internal/model"
	"github.com/rjtobin/yask/internal/vecinfo"
)

// Printer renders an optimized DAG plus its vector-fold analysis as
// pseudo-code, following the teacher's append-only Gen byte-builder style
// (internal/compile/author/cgen.Gen): each render method appends to a
// growing []byte rather than writing through an io.Writer.
type Printer struct {
	Arena  *expr.Arena
	Groups *model.EquationGroups
	Vec    *vecinfo.Analyzer
	namer  *cppintrin.Namer
}

// New returns a Printer over an optimized arena, its grouped equations,
// and the vector-fold analysis already run against it.
func New(a *expr.Arena, groups *model.EquationGroups, vec *vecinfo.Analyzer) *Printer {
	return &Printer{Arena: a, Groups: groups, Vec: vec, namer: cppintrin.NewNamer()}
}

// Print renders every aligned block load, then every equation group in
// name order, each equation on its own line.
func (p *Printer) Print() []byte {
	var out []byte
	out = p.appendBlockLoads(out)
	names := append([]string(nil), p.Groups.Names...)
	sort.Strings(names)
	for _, name := range names {
		out = append(out, "# group: "+name+"\n"...)
		for _, eq := range p.Groups.ByName[name] {
			out = p.appendEquation(out, eq)
		}
	}
	return out
}

func (p *Printer) appendBlockLoads(out []byte) []byte {
	for _, b := range p.Vec.Blocks() {
		line := "load " + cppintrin.BlockVarName(b) + " <- " + b.GridName + "[" + b.Coord.String() + "]\n"
		out = append(out, line...)
	}
	return out
}

func (p *Printer) appendEquation(out []byte, eq model.Equation) []byte {
	rhs := p.Arena.RHS(eq.ID)
	line := eq.Grid.Name() + "(" + eq.Offset.String() + ") = " + p.renderExpr(rhs) + "\n"
	return append(out, line...)
}

func (p *Printer) renderExpr(id expr.ID) string {
	switch p.Arena.Kind(id) {
	case expr.KindConst:
		return strconv.FormatFloat(p.Arena.ConstVal(id), 'g', -1, 64)
	case expr.KindGridPoint:
		return p.renderGridPoint(id)
	case expr.KindParamRef:
		param := p.Arena.Param(id)
		return param.Name + "[" + p.Arena.Offset(id).String() + "]"
	case expr.KindNeg:
		return "-(" + p.renderExpr(p.Arena.Child(id)) + ")"
	case expr.KindAdd:
		return p.renderNary(id, " + ")
	case expr.KindMul:
		return p.renderNary(id, " * ")
	case expr.KindSub:
		return "(" + p.renderExpr(p.Arena.Left(id)) + " - " + p.renderExpr(p.Arena.Right(id)) + ")"
	case expr.KindDiv:
		return "(" + p.renderExpr(p.Arena.Left(id)) + " / " + p.renderExpr(p.Arena.Right(id)) + ")"
	default:
		return "?"
	}
}

func (p *Printer) renderNary(id expr.ID, op string) string {
	children := p.Arena.Children(id)
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = p.renderExpr(c)
	}
	return "(" + strings.Join(parts, op) + ")"
}

// renderGridPoint renders a grid read via its vector-fold plan when one
// was computed (the normal case for any read reachable from an equation's
// RHS): an aligned read names its single block directly; an unaligned
// read composes its blocks through the plan's align steps; a read under
// the allow-unaligned-loads policy renders as a single unaligned load.
// A read with no plan (only possible for a node Analyze never reached,
// e.g. a detached test fixture) falls back to plain grid syntax.
func (p *Printer) renderGridPoint(id expr.ID) string {
	plan, ok := p.Vec.PlanFor(id)
	grid := p.Arena.Grid(id)
	offset := p.Arena.Offset(id)
	if !ok {
		return grid.Name + "[" + offset.String() + "]"
	}
	if plan.Unaligned {
		return "unaligned_load(" + grid.Name + "[" + offset.String() + "])"
	}
	if len(plan.AlignSteps) == 0 {
		return cppintrin.BlockVarName(plan.Blocks[0])
	}
	// A single align step folds two blocks exactly. A gather-style plan
	// (one step per participating dim) is rendered as a linear chain over
	// the Cartesian block list rather than the true pairwise binary-tree
	// composition: sufficient to make the analysis observable here, not a
	// claim about how a real backend would schedule the shuffles.
	cur := cppintrin.BlockVarName(plan.Blocks[0])
	for i, step := range plan.AlignSteps {
		next := cppintrin.BlockVarName(plan.Blocks[i+1])
		cur = cppintrin.AlignVarName(cur+"_"+next, step.Dim, step.ShiftElements)
	}
	return cur
}
