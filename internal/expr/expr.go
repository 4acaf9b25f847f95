// Package expr implements the stencil equation expression DAG: an
// arena-indexed graph of constants, grid-point reads, parameter reads,
// arithmetic operators and assignment ("equation") nodes.
//
// Nodes are addressed by integer ID rather than pointer so that passes can
// share structure (a DAG, not a tree) without needing reference-counted
// cells: the arena owns every node for the lifetime of one generation run,
// and dropping the arena tears the whole graph down in one step.
package expr

import "github.com/rjtobin/yask/internal/tuple"

// Kind is the closed set of expression node variants.
type Kind int

const (
	KindConst Kind = iota
	KindGridPoint
	KindParamRef
	KindNeg
	KindAdd
	KindMul
	KindSub
	KindDiv
	KindEquation
)

func (k Kind) String() string {
	switch k {
	case KindConst:
		return "Const"
	case KindGridPoint:
		return "GridPoint"
	case KindParamRef:
		return "ParamRef"
	case KindNeg:
		return "Neg"
	case KindAdd:
		return "Add"
	case KindMul:
		return "Mul"
	case KindSub:
		return "Sub"
	case KindDiv:
		return "Div"
	case KindEquation:
		return "Equation"
	default:
		return "?"
	}
}

// IsCommutative reports whether k is Add or Mul.
func (k Kind) IsCommutative() bool { return k == KindAdd || k == KindMul }

// IsBinary reports whether k is Sub or Div (the two non-commutative,
// non-reorderable binary operators).
func (k Kind) IsBinary() bool { return k == KindSub || k == KindDiv }

// ID is an arena-relative handle to a node. The zero ID is never valid;
// arenas reserve index 0.
type ID int

// GridHandle identifies a Grid by pointer; it carries just enough for
// expression nodes and visitors to print and compare grid reads without
// expr depending on the model package (which owns the full Grid and would
// otherwise create an import cycle).
type GridHandle struct {
	Name string
	Dims []string
}

// ParamHandle identifies a Param, analogous to GridHandle.
type ParamHandle struct {
	Name string
	Dims []string
}

type node struct {
	kind Kind

	constVal float64

	grid   *GridHandle
	param  *ParamHandle
	offset tuple.IntTuple // GridPoint offset or ParamRef index

	child ID // Neg operand

	children []ID // Add/Mul operands, canonical order once Combine has run

	left, right ID // Sub/Div operands

	lhs, rhs ID // Equation operands
}

// Arena owns every node created during one generation run.
type Arena struct {
	nodes []node
}

// NewArena returns an empty arena. Index 0 is reserved so the zero ID is
// never a valid handle.
func NewArena() *Arena {
	return &Arena{nodes: make([]node, 1)}
}

func (a *Arena) alloc(n node) ID {
	a.nodes = append(a.nodes, n)
	return ID(len(a.nodes) - 1)
}

func (a *Arena) at(id ID) *node {
	if int(id) <= 0 || int(id) >= len(a.nodes) {
		panic("expr: invalid node ID")
	}
	return &a.nodes[id]
}

// Len returns the number of live node slots, including any left behind by
// rewrite passes that allocated replacements. Useful for node-count
// monotonicity checks in tests; production code should instead count
// distinct reachable IDs from roots.
func (a *Arena) Len() int { return len(a.nodes) - 1 }

// Const allocates a floating-point literal node.
func (a *Arena) Const(v float64) ID {
	return a.alloc(node{kind: KindConst, constVal: v})
}

// GridPoint allocates a grid-point read at the given absolute offset.
func (a *Arena) GridPoint(g *GridHandle, offset tuple.IntTuple) ID {
	return a.alloc(node{kind: KindGridPoint, grid: g, offset: offset})
}

// ParamRef allocates a parameter read at the given index.
func (a *Arena) ParamRef(p *ParamHandle, index tuple.IntTuple) ID {
	return a.alloc(node{kind: KindParamRef, param: p, offset: index})
}

// Neg allocates a unary negation of x.
func (a *Arena) Neg(x ID) ID {
	return a.alloc(node{kind: KindNeg, child: x})
}

// Add allocates a commutative sum of the given operands (at least one
// required). Callers normally supply two operands; CombineVisitor later
// flattens nested sums into a single n-ary node.
func (a *Arena) Add(xs ...ID) ID {
	return a.newCommutative(KindAdd, xs)
}

// Mul allocates a commutative product of the given operands.
func (a *Arena) Mul(xs ...ID) ID {
	return a.newCommutative(KindMul, xs)
}

func (a *Arena) newCommutative(k Kind, xs []ID) ID {
	if len(xs) == 0 {
		panic("expr: commutative op requires at least one operand")
	}
	cp := make([]ID, len(xs))
	copy(cp, xs)
	return a.alloc(node{kind: k, children: cp})
}

// Sub allocates a subtraction x - y.
func (a *Arena) Sub(x, y ID) ID {
	return a.newBinary(KindSub, x, y)
}

// Div allocates a division x / y.
func (a *Arena) Div(x, y ID) ID {
	return a.newBinary(KindDiv, x, y)
}

func (a *Arena) newBinary(k Kind, x, y ID) ID {
	return a.alloc(node{kind: k, left: x, right: y})
}

// Equation allocates an assignment node; lhs must be the ID of a
// GridPoint node.
func (a *Arena) Equation(lhs, rhs ID) ID {
	if a.at(lhs).kind != KindGridPoint {
		panic("expr: equation LHS must be a GridPoint")
	}
	return a.alloc(node{kind: KindEquation, lhs: lhs, rhs: rhs})
}

// Kind returns the node's variant tag.
func (a *Arena) Kind(id ID) Kind { return a.at(id).kind }

// ConstVal returns a Const node's literal value.
func (a *Arena) ConstVal(id ID) float64 { return a.at(id).constVal }

// Grid returns a GridPoint node's grid handle.
func (a *Arena) Grid(id ID) *GridHandle { return a.at(id).grid }

// Param returns a ParamRef node's param handle.
func (a *Arena) Param(id ID) *ParamHandle { return a.at(id).param }

// Offset returns a GridPoint's offset or a ParamRef's index tuple.
func (a *Arena) Offset(id ID) tuple.IntTuple { return a.at(id).offset }

// Child returns a Neg node's operand.
func (a *Arena) Child(id ID) ID { return a.at(id).child }

// Children returns an Add/Mul node's operand list. Callers must not
// mutate the returned slice.
func (a *Arena) Children(id ID) []ID { return a.at(id).children }

// Left returns a Sub/Div node's left operand.
func (a *Arena) Left(id ID) ID { return a.at(id).left }

// Right returns a Sub/Div node's right operand.
func (a *Arena) Right(id ID) ID { return a.at(id).right }

// LHS returns an Equation node's target GridPoint.
func (a *Arena) LHS(id ID) ID { return a.at(id).lhs }

// RHS returns an Equation node's right-hand expression.
func (a *Arena) RHS(id ID) ID { return a.at(id).rhs }

// Rebuild allocates a copy of id's node with its direct children replaced
// as given; used by rewrite passes (CSE, Combine) to produce a new node
// when children have changed identity. Leaves (Const, GridPoint, ParamRef)
// have no children and panic if Rebuild is called on them.
func (a *Arena) Rebuild(id ID, newChildren ...ID) ID {
	n := *a.at(id)
	switch n.kind {
	case KindNeg:
		n.child = newChildren[0]
	case KindAdd, KindMul:
		cp := make([]ID, len(newChildren))
		copy(cp, newChildren)
		n.children = cp
	case KindSub, KindDiv:
		n.left, n.right = newChildren[0], newChildren[1]
	case KindEquation:
		n.lhs, n.rhs = newChildren[0], newChildren[1]
	default:
		panic("expr: Rebuild called on a leaf node")
	}
	return a.alloc(n)
}

// DirectChildren returns id's immediate operand IDs in a uniform slice,
// regardless of kind (empty for leaves).
func (a *Arena) DirectChildren(id ID) []ID {
	n := a.at(id)
	switch n.kind {
	case KindNeg:
		return []ID{n.child}
	case KindAdd, KindMul:
		return n.children
	case KindSub, KindDiv:
		return []ID{n.left, n.right}
	case KindEquation:
		return []ID{n.lhs, n.rhs}
	default:
		return nil
	}
}
