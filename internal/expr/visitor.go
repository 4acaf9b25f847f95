package expr

// Visitor is the expression DAG's visitor protocol: one method per node
// variant. Implementations may observe (return the input ID unchanged and
// changed=false) or rewrite (return a replacement ID and changed=true).
//
// Rewrite passes are driven post-order (children visited, and possibly
// substituted, before the parent); WalkPreOrder offers a pre-order,
// observe-only traversal. Both traversals visit each distinct node ID
// exactly once, so shared DAG structure is only processed a single time.
type Visitor interface {
	VisitConst(a *Arena, id ID) (ID, bool)
	VisitGridPoint(a *Arena, id ID) (ID, bool)
	VisitParamRef(a *Arena, id ID) (ID, bool)
	VisitNeg(a *Arena, id ID) (ID, bool)
	VisitCommutative(a *Arena, id ID) (ID, bool)
	VisitBinary(a *Arena, id ID) (ID, bool)
	VisitEquation(a *Arena, id ID) (ID, bool)
}

func dispatch(v Visitor, a *Arena, id ID) (ID, bool) {
	switch a.Kind(id) {
	case KindConst:
		return v.VisitConst(a, id)
	case KindGridPoint:
		return v.VisitGridPoint(a, id)
	case KindParamRef:
		return v.VisitParamRef(a, id)
	case KindNeg:
		return v.VisitNeg(a, id)
	case KindAdd, KindMul:
		return v.VisitCommutative(a, id)
	case KindSub, KindDiv:
		return v.VisitBinary(a, id)
	case KindEquation:
		return v.VisitEquation(a, id)
	default:
		panic("expr: dispatch on unknown kind")
	}
}

// Rewrite walks the DAG rooted at root post-order, rebuilding any node
// whose children changed identity and then offering the (possibly
// rebuilt) node to v. It returns the new root ID and the number of nodes
// v actually replaced. Each distinct ID is processed once; a node
// revisited while still being processed indicates a cycle and panics,
// since the AST is built acyclic by construction and a cycle can only
// indicate a client bug (spec's "expression cycle" error kind).
func Rewrite(a *Arena, v Visitor, root ID) (ID, int) {
	memo := make(map[ID]ID)
	inProgress := make(map[ID]bool)
	changes := 0

	var walk func(id ID) ID
	walk = func(id ID) ID {
		if r, ok := memo[id]; ok {
			return r
		}
		if inProgress[id] {
			panic("expr: cycle detected in expression DAG")
		}
		inProgress[id] = true

		rebuilt := id
		children := a.DirectChildren(id)
		if len(children) > 0 {
			newChildren := make([]ID, len(children))
			changedChildren := false
			for i, c := range children {
				nc := walk(c)
				newChildren[i] = nc
				if nc != c {
					changedChildren = true
				}
			}
			if changedChildren {
				rebuilt = a.Rebuild(id, newChildren...)
			}
		}

		repl, changed := dispatch(v, a, rebuilt)
		if changed {
			changes++
			rebuilt = repl
		}

		delete(inProgress, id)
		memo[id] = rebuilt
		return rebuilt
	}

	final := walk(root)
	return final, changes
}

// WalkPreOrder walks the DAG rooted at root pre-order (parent before
// children), visiting each distinct ID exactly once, and discards any
// rewrite the visitor returns. It is meant for observe-only passes;
// exprutils.Counter does not use it and walks the DAG itself.
func WalkPreOrder(a *Arena, v Visitor, root ID) {
	visited := make(map[ID]bool)
	var walk func(id ID)
	walk = func(id ID) {
		if visited[id] {
			return
		}
		visited[id] = true
		dispatch(v, a, id)
		for _, c := range a.DirectChildren(id) {
			walk(c)
		}
	}
	walk(root)
}

// BaseVisitor implements Visitor with every method a no-op observer,
// suitable for embedding by visitors that only care about a subset of
// node kinds.
type BaseVisitor struct{}

func (BaseVisitor) VisitConst(a *Arena, id ID) (ID, bool)       { return id, false }
func (BaseVisitor) VisitGridPoint(a *Arena, id ID) (ID, bool)   { return id, false }
func (BaseVisitor) VisitParamRef(a *Arena, id ID) (ID, bool)    { return id, false }
func (BaseVisitor) VisitNeg(a *Arena, id ID) (ID, bool)         { return id, false }
func (BaseVisitor) VisitCommutative(a *Arena, id ID) (ID, bool) { return id, false }
func (BaseVisitor) VisitBinary(a *Arena, id ID) (ID, bool)      { return id, false }
func (BaseVisitor) VisitEquation(a *Arena, id ID) (ID, bool)    { return id, false }
