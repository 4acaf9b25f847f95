// Package emit defines the read-only Emitter contract a textual printer
// consumes to walk the finished, analyzed DAG (spec.md §6), plus one
// concrete reference printer (package pseudo) used to make the vector-fold
// analyzer's output observably testable end to end. Real C++/KNC/AVX
// printers are out of scope for the core and are not implemented here.
//
// Gen follows the teacher's append-only byte-builder style
// (internal/compile/author/cgen.Gen): a printer builds output by
// repeatedly appending to a growing []byte rather than via an io.Writer,
// so printers can be composed the same way cgen's node types are.
package emit

import "github.com/rjtobin/yask/internal/model"

// Gen is one node of printable output.
type Gen interface {
	Append(to []byte) []byte
}

// Emitter is the read-only view a printer walks: one equation group at a
// time, each equation's analyzed RHS, and the vector-fold plan for every
// grid read it contains. It deliberately exposes no mutation — printers
// consume a finished generation pass, they do not participate in it.
type Emitter interface {
	// GroupNames returns the equation-group names, in the order they were
	// first populated (spec.md §4.8's findEquations grouping).
	GroupNames() []string
	// Equations returns the equations installed in the named group, in
	// installation order.
	Equations(group string) []EquationView
}

// EquationView is one installed equation as a printer sees it: the target
// grid name and offset, and the already-optimized, vector-fold-annotated
// expression tree rooted at ExprID.
type EquationView struct {
	GridName string
	Offset   string // IntTuple.String() form, e.g. "x=4, y=2"
	ExprID   int
}

// Program adapts a grouped equation set into the abstract Emitter
// contract. pseudo.Printer does not go through it (it needs the full
// expr.Arena and vecinfo.Analyzer to render recursively), but Program
// gives any future, genuinely decoupled printer a concrete implementation
// to consume without depending on the expr/model packages directly.
type Program struct {
	Groups *model.EquationGroups
}

// GroupNames implements Emitter.
func (p Program) GroupNames() []string { return append([]string(nil), p.Groups.Names...) }

// Equations implements Emitter.
func (p Program) Equations(group string) []EquationView {
	eqs := p.Groups.ByName[group]
	out := make([]EquationView, len(eqs))
	for i, eq := range eqs {
		out[i] = EquationView{
			GridName: eq.Grid.Name(),
			Offset:   eq.Offset.String(),
			ExprID:   int(eq.ID),
		}
	}
	return out
}
