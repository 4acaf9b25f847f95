// Package cliconfig parses the generator's command-line flags into an
// Options struct, mirroring the teacher's raw.Config: a single plain
// struct the rest of the pipeline consumes, built once up front rather
// than threading individual flag values through every layer.
package cliconfig

import (
	"flag"

	"github.com/rjtobin/yask/internal/yaskerr"
)

// Options holds every flag spec.md §6 lists.
type Options struct {
	Stencil      string // -st
	Fold         string // -fold, e.g. "x=4,y=2"
	Cluster      string // -cluster, e.g. "x=1,y=1"
	EqTargets    string // -eq, e.g. "velocity=vel_,stress=stress_"
	Order        int    // -or
	LastUnitStride bool // -lus: use last-inner traversal instead of the default first-inner
	AllowUnalignedLoads bool // -aul
	ExprSize     int  // -es
	Combine      bool // -comb / -nocomb
	Cse          bool // -cse / -nocse

	PrintHeader bool // -ph
	PrintPseudo bool // -pp
	PrintPOVRay bool // -pm
	PrintCpp    bool // -pcpp
	PrintKNC    bool // -pknc
	PrintAVX512 bool // -p512
	PrintAVX256 bool // -p256
}

// AnyPrintMode reports whether at least one print-mode flag was set, as
// spec.md §6 requires ("exactly one or more print modes select which
// emitter runs").
func (o Options) AnyPrintMode() bool {
	return o.PrintHeader || o.PrintPseudo || o.PrintPOVRay || o.PrintCpp ||
		o.PrintKNC || o.PrintAVX512 || o.PrintAVX256
}

// Parse parses args (normally os.Args[1:]) into Options.
func Parse(args []string) (Options, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)

	opt := Options{Combine: true, Cse: true}
	fs.StringVar(&opt.Stencil, "st", "", "stencil name")
	fs.StringVar(&opt.Fold, "fold", "", "fold shape, e.g. x=4,y=2")
	fs.StringVar(&opt.Cluster, "cluster", "", "cluster shape, e.g. x=1,y=1")
	fs.StringVar(&opt.EqTargets, "eq", "", "equation group rule, e.g. velocity=vel_,stress=stress_")
	fs.IntVar(&opt.Order, "or", 0, "stencil order")
	fs.BoolVar(&opt.LastUnitStride, "lus", false, "use last-inner traversal order instead of first-inner")
	fs.BoolVar(&opt.AllowUnalignedLoads, "aul", false, "allow unaligned vector loads")
	fs.IntVar(&opt.ExprSize, "es", 0, "expression-size threshold for hoisting temporaries")
	fs.BoolVar(&opt.Combine, "comb", true, "run the combine pass (default)")
	fs.BoolVar(&opt.Cse, "cse", true, "run common-subexpression elimination (default)")
	noComb := fs.Bool("nocomb", false, "skip the combine pass")
	noCse := fs.Bool("nocse", false, "skip common-subexpression elimination")
	fs.BoolVar(&opt.PrintHeader, "ph", false, "print header")
	fs.BoolVar(&opt.PrintPseudo, "pp", false, "print pseudo-code")
	fs.BoolVar(&opt.PrintPOVRay, "pm", false, "print POV-Ray model")
	fs.BoolVar(&opt.PrintCpp, "pcpp", false, "print generic C++")
	fs.BoolVar(&opt.PrintKNC, "pknc", false, "print KNC intrinsics")
	fs.BoolVar(&opt.PrintAVX512, "p512", false, "print AVX-512 intrinsics")
	fs.BoolVar(&opt.PrintAVX256, "p256", false, "print AVX-256 intrinsics")

	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}
	if *noComb {
		opt.Combine = false
	}
	if *noCse {
		opt.Cse = false
	}
	if opt.Stencil == "" {
		return Options{}, yaskerr.Stencil("missing required -st flag")
	}
	if !opt.AnyPrintMode() {
		return Options{}, yaskerr.Stencil("at least one print-mode flag (-ph, -pp, -pm, -pcpp, -pknc, -p512, -p256) is required")
	}
	return opt, nil
}
