// Package tuple implements IntTuple: an insertion-ordered mapping from
// dimension name to signed integer, used throughout yask to represent
// offsets, fold shapes and cluster shapes.
package tuple

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

type dim struct {
	name string
	val  int
}

// IntTuple is an insertion-ordered dimension-name -> value map. The zero
// value is an empty tuple. IntTuple is a value type: copy it, don't share
// it mutably.
type IntTuple struct {
	dims []dim
}

// firstInner controls the default traversal order used by VisitAllPoints
// when no explicit order is requested. It is process-wide and is meant to
// be set once at startup, before any VisitAllPoints call (spec.md §5).
var firstInner = true

// SetDefaultFirstInner sets the process-wide default traversal order.
// Callers must set this before the first VisitAllPoints call of a
// generation run and never mutate it afterward.
func SetDefaultFirstInner(v bool) {
	firstInner = v
}

// DefaultFirstInner reports the current process-wide traversal order.
func DefaultFirstInner() bool {
	return firstInner
}

// New returns an empty IntTuple.
func New() IntTuple {
	return IntTuple{}
}

// AddDim appends a new dimension with the given value. It fails if the
// dimension name already exists in the tuple.
func (t IntTuple) AddDim(name string, v int) (IntTuple, error) {
	if _, ok := t.index(name); ok {
		return t, errors.New("IntTuple: dimension already exists: " + name)
	}
	out := make([]dim, len(t.dims), len(t.dims)+1)
	copy(out, t.dims)
	out = append(out, dim{name: name, val: v})
	return IntTuple{dims: out}, nil
}

// MustAddDim is AddDim for callers that know the name is fresh.
func (t IntTuple) MustAddDim(name string, v int) IntTuple {
	out, err := t.AddDim(name, v)
	if err != nil {
		panic(err)
	}
	return out
}

func (t IntTuple) index(name string) (int, bool) {
	for i := range t.dims {
		if t.dims[i].name == name {
			return i, true
		}
	}
	return 0, false
}

// Lookup returns the value at name and whether it was present.
func (t IntTuple) Lookup(name string) (int, bool) {
	i, ok := t.index(name)
	if !ok {
		return 0, false
	}
	return t.dims[i].val, true
}

// SetVal returns a copy of t with name set to v. If name does not yet
// exist, it is appended (matching AddDim's ordering rules).
func (t IntTuple) SetVal(name string, v int) IntTuple {
	if i, ok := t.index(name); ok {
		out := make([]dim, len(t.dims))
		copy(out, t.dims)
		out[i].val = v
		return IntTuple{dims: out}
	}
	return t.MustAddDim(name, v)
}

// DimNames returns the dimension names in insertion order.
func (t IntTuple) DimNames() []string {
	out := make([]string, len(t.dims))
	for i := range t.dims {
		out[i] = t.dims[i].name
	}
	return out
}

// Size returns the number of dimensions.
func (t IntTuple) Size() int {
	return len(t.dims)
}

// Product returns the product of all values; 1 for the empty tuple.
func (t IntTuple) Product() int {
	p := 1
	for i := range t.dims {
		p *= t.dims[i].val
	}
	return p
}

// MultElements returns a new tuple whose value at each dim shared by t and
// other is the product of the two values; dims unique to one side are
// copied through unchanged.
func (t IntTuple) MultElements(other IntTuple) IntTuple {
	out := IntTuple{}
	for _, d := range t.dims {
		if v, ok := other.Lookup(d.name); ok {
			out = out.MustAddDim(d.name, d.val*v)
		} else {
			out = out.MustAddDim(d.name, d.val)
		}
	}
	for _, d := range other.dims {
		if _, ok := t.Lookup(d.name); !ok {
			out = out.MustAddDim(d.name, d.val)
		}
	}
	return out
}

// Add returns the elementwise sum of t and other. Dims unique to one side
// are copied through unchanged.
func (t IntTuple) Add(other IntTuple) IntTuple {
	return t.combine(other, func(a, b int) int { return a + b })
}

// Sub returns the elementwise difference t - other.
func (t IntTuple) Sub(other IntTuple) IntTuple {
	return t.combine(other, func(a, b int) int { return a - b })
}

func (t IntTuple) combine(other IntTuple, f func(a, b int) int) IntTuple {
	out := IntTuple{}
	for _, d := range t.dims {
		if v, ok := other.Lookup(d.name); ok {
			out = out.MustAddDim(d.name, f(d.val, v))
		} else {
			out = out.MustAddDim(d.name, d.val)
		}
	}
	for _, d := range other.dims {
		if _, ok := t.Lookup(d.name); !ok {
			out = out.MustAddDim(d.name, f(0, d.val))
		}
	}
	return out
}

// FloorDivElements returns the elementwise floor division of t by fold,
// restricted to dims present in fold. Dims of t absent from fold are
// copied through unchanged. Used by vecinfo to compute a read's home
// aligned-block coordinate.
func (t IntTuple) FloorDivElements(fold IntTuple) IntTuple {
	out := IntTuple{}
	for _, d := range t.dims {
		if f, ok := fold.Lookup(d.name); ok {
			out = out.MustAddDim(d.name, floorDiv(d.val, f))
		} else {
			out = out.MustAddDim(d.name, d.val)
		}
	}
	return out
}

// ModElements returns the elementwise non-negative remainder of t modulo
// fold, restricted to dims present in fold.
func (t IntTuple) ModElements(fold IntTuple) IntTuple {
	out := IntTuple{}
	for _, d := range t.dims {
		if f, ok := fold.Lookup(d.name); ok {
			out = out.MustAddDim(d.name, floorMod(d.val, f))
		} else {
			out = out.MustAddDim(d.name, d.val)
		}
	}
	return out
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

// Equal reports whether t and other contain the same dimensions (any
// order) with equal values.
func (t IntTuple) Equal(other IntTuple) bool {
	if len(t.dims) != len(other.dims) {
		return false
	}
	for _, d := range t.dims {
		v, ok := other.Lookup(d.name)
		if !ok || v != d.val {
			return false
		}
	}
	return true
}

// VisitAllPoints enumerates every point in [0, val_d) for each dim,
// calling f once per point with an IntTuple of the same dims as t. order
// selects first-inner (true, first-added dim varies fastest) or
// last-inner (false) traversal.
func (t IntTuple) VisitAllPoints(firstInnerOrder bool, f func(IntTuple)) {
	n := len(t.dims)
	if n == 0 {
		f(IntTuple{})
		return
	}
	idx := make([]int, n)
	cur := IntTuple{dims: make([]dim, n)}
	for i, d := range t.dims {
		cur.dims[i] = dim{name: d.name, val: 0}
	}
	order := make([]int, n)
	if firstInnerOrder {
		for i := range order {
			order[i] = i
		}
	} else {
		for i := range order {
			order[i] = n - 1 - i
		}
	}
	total := t.Product()
	if total <= 0 {
		return
	}
	for p := 0; p < total; p++ {
		for i := range cur.dims {
			cur.dims[i].val = idx[i]
		}
		f(cur.copy())
		for _, d := range order {
			idx[d]++
			if idx[d] < t.dims[d].val {
				break
			}
			idx[d] = 0
		}
	}
}

// VisitAllPointsDefault is VisitAllPoints using the process-wide default
// traversal order (see SetDefaultFirstInner).
func (t IntTuple) VisitAllPointsDefault(f func(IntTuple)) {
	t.VisitAllPoints(DefaultFirstInner(), f)
}

func (t IntTuple) copy() IntTuple {
	out := make([]dim, len(t.dims))
	copy(out, t.dims)
	return IntTuple{dims: out}
}

// Key returns a canonical string form independent of insertion order,
// suitable as a map key for "same logical point" lookups (e.g. dedup
// tables keyed on grid/param identity + offset).
func (t IntTuple) Key() string {
	names := append([]string(nil), t.DimNames()...)
	sort.Strings(names)
	var b strings.Builder
	for _, n := range names {
		v, _ := t.Lookup(n)
		b.WriteString(n)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(v))
		b.WriteByte(';')
	}
	return b.String()
}

// String formats as "x=4, y=2".
func (t IntTuple) String() string {
	var b strings.Builder
	for i, d := range t.dims {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.name)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(d.val))
	}
	return b.String()
}

// ProductString formats as "4 * 2".
func (t IntTuple) ProductString() string {
	var b strings.Builder
	for i, d := range t.dims {
		if i > 0 {
			b.WriteString(" * ")
		}
		b.WriteString(strconv.Itoa(d.val))
	}
	return b.String()
}

// Parse parses the CLI shape syntax ("x=4,y=2") into an IntTuple, in the
// order the dimensions appear in the string. An empty string yields an
// empty tuple.
func Parse(s string) (IntTuple, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return IntTuple{}, nil
	}
	out := New()
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 || kv[0] == "" || kv[1] == "" {
			return IntTuple{}, errors.New("IntTuple: invalid shape term " + strconv.Quote(part) + ", expected name=value")
		}
		v, err := strconv.Atoi(kv[1])
		if err != nil {
			return IntTuple{}, errors.New("IntTuple: invalid value in shape term " + strconv.Quote(part))
		}
		var aerr error
		out, aerr = out.AddDim(kv[0], v)
		if aerr != nil {
			return IntTuple{}, aerr
		}
	}
	return out, nil
}

// Compare implements a stable total order over tuples: first by size, then
// lexicographically by the sorted dimension names, then by the values
// taken in that sorted-name order. It is
// used by CombineVisitor to canonicalize GridPoint/ParamRef offsets.
func Compare(a, b IntTuple) int {
	if a.Size() != b.Size() {
		if a.Size() < b.Size() {
			return -1
		}
		return 1
	}
	an := append([]string(nil), a.DimNames()...)
	bn := append([]string(nil), b.DimNames()...)
	sort.Strings(an)
	sort.Strings(bn)
	for i := range an {
		if an[i] != bn[i] {
			if an[i] < bn[i] {
				return -1
			}
			return 1
		}
	}
	for _, name := range an {
		av, _ := a.Lookup(name)
		bv, _ := b.Lookup(name)
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}
