// Package driver ties the core together into the generation pipeline: it
// runs cluster expansion, the exprutils optimization passes, and the
// vector-fold analyzer over a selected stencil, then hands the result to
// the requested printer. It mirrors the teacher's internal/compile.Compile
// structure: an ordered list of func(*state) error stages run against a
// single mutable state value, the first failing stage's error wrapped
// once and returned.
package driver

import (
	"github.com/rjtobin/yask/internal/cliconfig"
	"github.com/rjtobin/yask/internal/cluster"
	"github.com/rjtobin/yask/internal/emit/pseudo"
	"github.com/rjtobin/yask/internal/exprutils"
	"github.com/rjtobin/yask/internal/model"
	"github.com/rjtobin/yask/internal/stencil"
	"github.com/rjtobin/yask/internal/stencil/examples/iso3dfd"
	"github.com/rjtobin/yask/internal/stencil/examples/trivialadd"
	"github.com/rjtobin/yask/internal/tuple"
	"github.com/rjtobin/yask/internal/vecinfo"
	"github.com/rjtobin/yask/internal/yaskerr"
)

// Registration is what a stencil factory hands the driver: a populated
// Builder plus the cluster.DefineFunc the expander drives.
type Registration struct {
	Builder *stencil.Builder
	Define  cluster.DefineFunc
}

// Factory constructs one fresh Registration; stencils are stateful (they
// own an arena), so the registry holds constructors, not instances.
type Factory func() Registration

// Registry is the bounded set of built-in stencils the driver can select
// with -st. Growing this into a real stencil library (ave, awp, a CLI
// discovery mechanism) is out of scope; these two entries exist as core
// test fixtures (spec.md §8 scenarios 1 and 2).
var Registry = map[string]Factory{
	"trivialadd": func() Registration {
		st := trivialadd.New()
		return Registration{Builder: st.Builder, Define: st.Define}
	},
	"iso3dfd": func() Registration {
		st := iso3dfd.New()
		return Registration{Builder: st.Builder, Define: st.Define}
	},
}

// Result is the finished generation's output.
type Result struct {
	Output []byte
	Counts *exprutils.Counts
}

type state struct {
	opt    cliconfig.Options
	reg    Registration
	fold   tuple.IntTuple
	clust  tuple.IntTuple
	groups *model.EquationGroups
	vec    *vecinfo.Analyzer
	result Result
}

var stages = [...]func(*state) error{
	(*state).stageSelectStencil,
	(*state).stageParseShapes,
	(*state).stageExpandCluster,
	(*state).stageOptimize,
	(*state).stageAnalyzeVectors,
	(*state).stageGroupEquations,
	(*state).stagePrint,
}

func (st *state) stages() error {
	for _, stage := range &stages {
		if err := stage(st); err != nil {
			return err
		}
	}
	return nil
}

// Run executes the full generation pipeline for the given options and
// returns the printed output plus the final (post-optimization) counter
// statistics.
func Run(opt cliconfig.Options) (*Result, error) {
	st := &state{opt: opt}
	if err := st.stages(); err != nil {
		return nil, yaskerr.Wrap("generate", err)
	}
	return &st.result, nil
}

func (st *state) stageSelectStencil() error {
	factory, ok := Registry[st.opt.Stencil]
	if !ok {
		return yaskerr.Stencil("unknown stencil: " + st.opt.Stencil)
	}
	st.reg = factory()
	return nil
}

func (st *state) stageParseShapes() error {
	// The traversal-order flag is process-wide and must be fixed before the
	// first VisitAllPoints call of the run (spec.md §5); cluster expansion
	// is the earliest caller, so it is set here.
	tuple.SetDefaultFirstInner(!st.opt.LastUnitStride)

	fold, err := tuple.Parse(st.opt.Fold)
	if err != nil {
		return err
	}
	clust, err := tuple.Parse(st.opt.Cluster)
	if err != nil {
		return err
	}
	if clust.Size() == 0 {
		// An unspecified cluster shape is one point per dim named by
		// fold, matching the single-cluster-point literal scenarios in
		// spec.md §8.
		for _, d := range fold.DimNames() {
			clust = clust.MustAddDim(d, 1)
		}
	}
	st.fold, st.clust = fold, clust
	return nil
}

func (st *state) stageExpandCluster() error {
	return cluster.Expand(st.reg.Builder.Grids, st.fold, st.clust, st.reg.Define)
}

func (st *state) stageOptimize() error {
	a := st.reg.Builder.Arena
	grids := st.reg.Builder.Grids
	if st.opt.Cse {
		exprutils.RunCSE(a, grids)
	}
	if st.opt.Combine {
		exprutils.RunCombine(a, grids)
		if st.opt.Cse {
			exprutils.RunCSE(a, grids)
		}
	}
	st.result.Counts = exprutils.CountToAll(a, grids)
	return nil
}

func (st *state) stageAnalyzeVectors() error {
	firstInner := !st.opt.LastUnitStride
	vec, err := vecinfo.New(st.fold, st.opt.AllowUnalignedLoads, firstInner)
	if err != nil {
		return err
	}
	vec.Analyze(st.reg.Builder.Arena, st.reg.Builder.Grids)
	st.vec = vec
	return nil
}

func (st *state) stageGroupEquations() error {
	groups, err := model.FindEquations(st.reg.Builder.Grids, st.opt.EqTargets)
	if err != nil {
		return err
	}
	st.groups = groups
	return nil
}

func (st *state) stagePrint() error {
	var out []byte
	if st.opt.PrintHeader {
		out = append(out, ("# " + st.opt.Stencil + ": " + st.result.Counts.String() + "\n")...)
	}
	if st.opt.PrintPseudo {
		p := pseudo.New(st.reg.Builder.Arena, st.groups, st.vec)
		out = append(out, p.Print()...)
	}
	for _, unimplemented := range []struct {
		requested bool
		flag      string
	}{
		{st.opt.PrintPOVRay, "-pm"},
		{st.opt.PrintCpp, "-pcpp"},
		{st.opt.PrintKNC, "-pknc"},
		{st.opt.PrintAVX512, "-p512"},
		{st.opt.PrintAVX256, "-p256"},
	} {
		if unimplemented.requested {
			return yaskerr.Stencil(unimplemented.flag + " printer is not implemented by this core")
		}
	}
	st.result.Output = out
	return nil
}
