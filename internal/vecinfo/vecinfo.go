// Package vecinfo implements the vector-fold analyzer (VecInfoVisitor):
// for each grid read in the DAG, under a chosen fold shape, it computes
// the set of aligned vector blocks that must be loaded and a permutation
// plan expressing the read as a sequence of aligned loads plus
// inter-vector align operations (spec.md §4.7).
package vecinfo

import (
	"strconv"

	"github.com/rjtobin/yask/internal/expr"
	"github.com/rjtobin/yask/internal/model"
	"github.com/rjtobin/yask/internal/tuple"
	"github.com/rjtobin/yask/internal/yaskerr"
)

// BlockCoord identifies one aligned vector block of a grid: a block-unit
// coordinate tuple, in which folded dimensions have been divided down to
// block units and unfolded dimensions are left as literal element offsets
// (an unfolded dimension has no vector lanes, so each of its indices is
// its own "block").
type BlockCoord struct {
	GridName string
	Coord    tuple.IntTuple
}

// Key returns a canonical string identity for the block, used for
// dedup across the whole equation DAG.
func (b BlockCoord) Key() string { return b.GridName + "::" + b.Coord.Key() }

// AlignStep is one pairwise align/permute operation combining two
// adjacent aligned blocks along a single dimension into one logically
// contiguous vector, parameterized by the element shift within that
// dimension's fold length.
type AlignStep struct {
	Dim           string
	ShiftElements int
}

// Plan is the permutation plan for one grid read: the aligned blocks it
// needs (already deduplicated identities — see Analyzer.Blocks), the
// align operations required to synthesize the logical read from them, and
// whether the read was instead satisfied by a single unaligned load under
// the allow-unaligned-loads policy.
//
// LaneMap records the read's output-lane mapping. Every plan this
// analyzer produces yields a fully assembled, correctly-ordered vector, so
// LaneMap is always the identity permutation over the fold's lane count;
// it is still exposed (rather than omitted) so emitters have a uniform
// contract regardless of how many blocks a given read needed.
type Plan struct {
	Blocks      []BlockCoord
	AlignSteps  []AlignStep
	Unaligned   bool
	LaneMap     []int
}

// Analyzer runs the vector-fold analysis over a chosen fold shape.
type Analyzer struct {
	fold           tuple.IntTuple
	foldedDims     []string // dims with fold length > 1, in fold declaration order
	allowUnaligned bool
	firstInner     bool

	plans      map[expr.ID]*Plan
	blockOrder []BlockCoord
	blockSeen  map[string]bool
}

// New validates the fold shape against the allow-unaligned-loads policy
// and returns a ready Analyzer. It is a hard error to request
// allow-unaligned-loads when the fold shape has two or more dimensions of
// length > 1 (spec.md §4.7 point 4): the aligned pattern cannot degenerate
// to a single unaligned vector in that case.
func New(fold tuple.IntTuple, allowUnaligned, firstInner bool) (*Analyzer, error) {
	var folded []string
	for _, d := range fold.DimNames() {
		if v, _ := fold.Lookup(d); v > 1 {
			folded = append(folded, d)
		}
	}
	if allowUnaligned && len(folded) >= 2 {
		return nil, yaskerr.Unaligned(
			"allow-unaligned-loads requires at most one folded dimension of length > 1, got " +
				strconv.Itoa(len(folded)))
	}
	return &Analyzer{
		fold:           fold,
		foldedDims:     folded,
		allowUnaligned: allowUnaligned,
		firstInner:     firstInner,
		plans:          make(map[expr.ID]*Plan),
		blockSeen:      make(map[string]bool),
	}, nil
}

// Analyze walks every installed equation in grids and computes a Plan for
// every distinct GridPoint read reachable from their right-hand sides. LHS
// (write-target) grid points are not analyzed: the cluster expander always
// installs equations at fold-aligned offsets, so a write never needs a
// permutation plan.
func (an *Analyzer) Analyze(a *expr.Arena, grids model.Grids) {
	visited := make(map[expr.ID]bool)
	var walk func(id expr.ID)
	walk = func(id expr.ID) {
		if visited[id] {
			return
		}
		visited[id] = true
		if a.Kind(id) == expr.KindGridPoint {
			an.planFor(a, id)
			return
		}
		for _, c := range a.DirectChildren(id) {
			walk(c)
		}
	}
	for _, eq := range model.CollectAll(grids) {
		walk(a.RHS(eq.ID))
	}
}

// PlanFor returns the plan computed for a GridPoint node, if analyzed.
func (an *Analyzer) PlanFor(id expr.ID) (*Plan, bool) {
	p, ok := an.plans[id]
	return p, ok
}

// Blocks returns every distinct aligned block loaded across the whole
// DAG, in first-encountered order, so an emitter can issue each aligned
// load exactly once per iteration and reuse the register (spec.md §4.7
// point 5).
func (an *Analyzer) Blocks() []BlockCoord {
	return append([]BlockCoord(nil), an.blockOrder...)
}

func (an *Analyzer) registerBlock(b BlockCoord) {
	key := b.Key()
	if an.blockSeen[key] {
		return
	}
	an.blockSeen[key] = true
	an.blockOrder = append(an.blockOrder, b)
}

func (an *Analyzer) planFor(a *expr.Arena, id expr.ID) {
	if _, ok := an.plans[id]; ok {
		return
	}
	grid := a.Grid(id)
	offset := a.Offset(id)

	home := offset.FloorDivElements(an.fold)
	remainder := offset.ModElements(an.fold)

	var participating []string
	for _, d := range an.foldedDims {
		if v, _ := remainder.Lookup(d); v != 0 {
			participating = append(participating, d)
		}
	}

	lanes := an.fold.Product()
	identityLanes := make([]int, lanes)
	for i := range identityLanes {
		identityLanes[i] = i
	}

	if len(participating) == 0 {
		b := BlockCoord{GridName: grid.Name, Coord: home}
		an.registerBlock(b)
		an.plans[id] = &Plan{Blocks: []BlockCoord{b}, LaneMap: identityLanes}
		return
	}

	if an.allowUnaligned {
		// New() already guarantees at most one folded dim of length > 1
		// exists when allow-unaligned-loads is set, so participating
		// necessarily has length 1 here.
		an.plans[id] = &Plan{Unaligned: true, LaneMap: identityLanes}
		return
	}

	blocks := an.cartesianBlocks(home, participating)
	for _, b := range blocks {
		an.registerBlock(BlockCoord{GridName: grid.Name, Coord: b})
	}
	planBlocks := make([]BlockCoord, len(blocks))
	for i, b := range blocks {
		planBlocks[i] = BlockCoord{GridName: grid.Name, Coord: b}
	}

	steps := make([]AlignStep, len(participating))
	for i, d := range participating {
		shift, _ := remainder.Lookup(d)
		steps[i] = AlignStep{Dim: d, ShiftElements: shift}
	}

	an.plans[id] = &Plan{Blocks: planBlocks, AlignSteps: steps, LaneMap: identityLanes}
}

// cartesianBlocks enumerates every aligned block needed to cover a read
// whose remainder is non-zero along each dim in participating: the home
// block and its +1 neighbor along each such dim, Cartesian product, in
// declaration order (spec.md §4.7 point 2-3).
func (an *Analyzer) cartesianBlocks(home tuple.IntTuple, participating []string) []tuple.IntTuple {
	shape := tuple.New()
	for _, d := range participating {
		shape = shape.MustAddDim(d, 2)
	}
	var out []tuple.IntTuple
	shape.VisitAllPoints(an.firstInner, func(p tuple.IntTuple) {
		b := home
		for _, d := range participating {
			step, _ := p.Lookup(d)
			hv, _ := home.Lookup(d)
			b = b.SetVal(d, hv+step)
		}
		out = append(out, b)
	})
	return out
}
