// Package cppintrin provides the language-neutral naming helpers printers
// use to name vector variables and aligned blocks: deterministic,
// collision-free identifiers derived from a grid/block/align-step
// identity, shared between the vector-fold analyzer's output and any
// future emitter (spec.md §4.7/§6).
//
// Names are derived from grid, block coordinate and align shift ("vec_"
// for an aligned block, "align_" plus the dimension and element shift for
// an align step) rather than raw register numbers, so printed code reads
// the way a hand-written SIMD kernel would.
package cppintrin

import (
	"strconv"
	"strings"

	"github.com/rjtobin/yask/internal/vecinfo"
)

// Namer assigns deterministic, never-repeating names within one
// generation run, keyed by a string prefix, mirroring the teacher's
// nmsrc.Src name source: the first name for a prefix has no suffix, later
// names append an incrementing counter.
type Namer struct {
	counts map[string]int
}

// NewNamer returns an empty Namer.
func NewNamer() *Namer {
	return &Namer{counts: make(map[string]int)}
}

// Name returns the next name for prefix.
func (n *Namer) Name(prefix string) string {
	c := n.counts[prefix]
	n.counts[prefix] = c + 1
	if c == 0 {
		return prefix
	}
	return prefix + "_" + strconv.Itoa(c)
}

// BlockVarName returns the canonical vector variable name for an aligned
// block: stable across the whole DAG so the same block, loaded once
// (vecinfo.Analyzer.Blocks dedups it), is always referred to by the same
// name wherever it is used.
func BlockVarName(b vecinfo.BlockCoord) string {
	var sb strings.Builder
	sb.WriteString("vec_")
	sb.WriteString(sanitize(b.GridName))
	for _, d := range b.Coord.DimNames() {
		v, _ := b.Coord.Lookup(d)
		sb.WriteByte('_')
		sb.WriteString(d)
		sb.WriteString(signed(v))
	}
	return sb.String()
}

// AlignVarName returns the canonical name for the result of one align step
// combining two adjacent blocks along dim, shifted by shiftElements.
func AlignVarName(base string, dim string, shiftElements int) string {
	return "align_" + base + "_" + dim + signed(shiftElements)
}

// signed renders v as a C-identifier-safe token: "p3" for +3, "m3" for -3,
// so block/align names stay valid identifiers for a textual emitter.
func signed(v int) string {
	if v < 0 {
		return "m" + strconv.Itoa(-v)
	}
	return "p" + strconv.Itoa(v)
}

func sanitize(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}
