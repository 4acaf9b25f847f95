package model

import "github.com/rjtobin/yask/internal/expr"

// Param is a named, read-only compile-time-shape array of coefficients.
// Unlike Grid, a Param carries no per-offset equations: its values come
// from outside the generator, and only its identity and shape matter to
// the core.
type Param struct {
	handle *expr.ParamHandle
}

// NewParam creates a new param with the given dimension names.
func NewParam(name string, dims ...string) *Param {
	return &Param{handle: &expr.ParamHandle{Name: name, Dims: append([]string(nil), dims...)}}
}

// Name returns the param's name.
func (p *Param) Name() string { return p.handle.Name }

// Dims returns the param's declared dimension names.
func (p *Param) Dims() []string { return p.handle.Dims }

// Handle returns the lightweight identity handle used by expr.ParamRef
// nodes.
func (p *Param) Handle() *expr.ParamHandle { return p.handle }

// Params is an ordered collection of params, in registration order.
type Params []*Param
