package model

import (
	"fmt"
	"strings"

	"github.com/rjtobin/yask/internal/expr"
	"github.com/rjtobin/yask/internal/tuple"
)

// Equation is one installed assignment: grid(offset) = <expr node ID>.
type Equation struct {
	Grid   *Grid
	Offset tuple.IntTuple
	ID     expr.ID // a KindEquation node
}

// DefaultGroup is the name equations fall into when no -eq substring
// matches their target grid's name.
const DefaultGroup = "default"

// CollectAll returns every installed equation across every grid, in
// grid-registration then per-grid-installation order (the "ToAll"
// traversal, spec.md §3).
func CollectAll(grids Grids) []Equation {
	var out []Equation
	grids.VisitToAll(func(g *Grid, offset tuple.IntTuple, id expr.ID) {
		out = append(out, Equation{Grid: g, Offset: offset, ID: id})
	})
	return out
}

// CollectFirst returns one representative equation per grid (the
// "ToFirst" traversal).
func CollectFirst(grids Grids) []Equation {
	var out []Equation
	grids.VisitToFirst(func(g *Grid, offset tuple.IntTuple, id expr.ID) {
		out = append(out, Equation{Grid: g, Offset: offset, ID: id})
	})
	return out
}

type groupRule struct {
	name string
	sub  string
}

// parseTargets parses a "-eq" style target string of the form
// "groupA=subA,groupB=subB" into ordered rules. An empty string yields no
// rules, so every equation falls into DefaultGroup.
func parseTargets(targets string) ([]groupRule, error) {
	targets = strings.TrimSpace(targets)
	if targets == "" {
		return nil, nil
	}
	var rules []groupRule
	for _, part := range strings.Split(targets, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 || kv[0] == "" || kv[1] == "" {
			return nil, errTargetSyntax(part)
		}
		rules = append(rules, groupRule{name: kv[0], sub: kv[1]})
	}
	return rules, nil
}

func errTargetSyntax(part string) error {
	return fmt.Errorf("invalid -eq target %q, expected name=substring", part)
}

// EquationGroups is the result of FindEquations: a named partition of
// equations, in first-seen group order.
type EquationGroups struct {
	Names  []string
	ByName map[string][]Equation
}

// FindEquations partitions every installed equation across grids into
// named groups by the -eq substring rule: each substring selects target
// grids whose names contain it; the first matching rule (in declaration
// order) wins; equations matching no rule fall into DefaultGroup. Within
// a group, equations retain their original installation order.
func FindEquations(grids Grids, targets string) (*EquationGroups, error) {
	rules, err := parseTargets(targets)
	if err != nil {
		return nil, err
	}
	groups := &EquationGroups{ByName: make(map[string][]Equation)}
	add := func(name string, eq Equation) {
		if _, ok := groups.ByName[name]; !ok {
			groups.Names = append(groups.Names, name)
		}
		groups.ByName[name] = append(groups.ByName[name], eq)
	}
	for _, eq := range CollectAll(grids) {
		assigned := false
		for _, r := range rules {
			if strings.Contains(eq.Grid.Name(), r.sub) {
				add(r.name, eq)
				assigned = true
				break
			}
		}
		if !assigned {
			add(DefaultGroup, eq)
		}
	}
	return groups, nil
}
