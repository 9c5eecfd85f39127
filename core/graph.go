package core

import (
	"fmt"
	"sort"
	"strings"
)

// Graph owns the collections of RVs and Factors of one factor graph.
// RV names are globally unique within a Graph; Factors are kept in insertion
// order. There is no removal operation.
type Graph struct {
	checked bool           // gates the heuristic/redundant invariant layers
	rvs     map[string]*RV // name → RV
	factors []*Factor      // insertion order
}

// NewGraph creates an empty factor graph. Checked mode is on by default;
// pass WithoutChecks to trade safety for speed.
// Complexity: O(1).
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		checked: true,
		rvs:     make(map[string]*RV),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Checked reports whether the heuristic invariant layers are enabled.
func (g *Graph) Checked() bool {
	return g.checked
}

// AddRV registers an RV by name. Returns ErrNilRV, or ErrDuplicateRV if an
// RV with the same name is already present; the graph is left unchanged on
// error. Complexity: O(1).
func (g *Graph) AddRV(rv *RV) error {
	if rv == nil {
		return ErrNilRV
	}
	if _, exists := g.rvs[rv.Name()]; exists {
		return fmt.Errorf("rv %q: %w", rv.Name(), ErrDuplicateRV)
	}
	g.rvs[rv.Name()] = rv

	return nil
}

// AddFactor registers a Factor. Returns ErrNilFactor, ErrDuplicateFactor for
// the same instance, and — in checked mode — ErrStructuralDuplicate when
// another Factor already connects the exact same unordered RV set. The
// structural scan is a heuristic against accidental duplication, not a
// requirement of factor graphs. Complexity: O(F·k) in checked mode.
func (g *Graph) AddFactor(f *Factor) error {
	if f == nil {
		return ErrNilFactor
	}
	for _, existing := range g.factors {
		if existing == f {
			return fmt.Errorf("factor %s: %w", f, ErrDuplicateFactor)
		}
	}
	if g.checked {
		key := rvSetKey(f)
		for _, existing := range g.factors {
			if rvSetKey(existing) == key {
				return fmt.Errorf("factor %s duplicates %s: %w", f, existing, ErrStructuralDuplicate)
			}
		}
	}
	g.factors = append(g.factors, f)

	return nil
}

// RV returns the registered RV with the given name.
func (g *Graph) RV(name string) (*RV, bool) {
	rv, ok := g.rvs[name]

	return rv, ok
}

// RVs returns all registered RVs sorted by name for reproducible ordering.
// Complexity: O(V·logV).
func (g *Graph) RVs() []*RV {
	out := make([]*RV, 0, len(g.rvs))
	for _, rv := range g.rvs {
		out = append(out, rv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })

	return out
}

// Factors returns all registered Factors in insertion order (copied slice).
func (g *Graph) Factors() []*Factor {
	return append([]*Factor(nil), g.factors...)
}

// RVCount returns the number of registered RVs. O(1).
func (g *Graph) RVCount() int {
	return len(g.rvs)
}

// FactorCount returns the number of registered Factors. O(1).
func (g *Graph) FactorCount() int {
	return len(g.factors)
}

// Joint returns the unnormalized joint score ∏ₐ fₐ(xₐ): the product, over
// every Factor, of its belief entry at the sub-assignment restricted to its
// attached RVs. The assignment must cover exactly the RVs of the graph —
// every key must name a registered RV with an in-domain value, and every
// registered RV must have an entry; any mismatch wraps
// ErrInvalidAssignment. No normalization constant is applied.
// Complexity: O(V + Σ deg(f)).
func (g *Graph) Joint(a Assignment) (float64, error) {
	// forward direction: every assignment key is a known RV with a valid value
	for name, v := range a {
		rv, ok := g.rvs[name]
		if !ok {
			return 0, fmt.Errorf("unknown rv %q: %w", name, ErrInvalidAssignment)
		}
		if _, err := rv.Resolve(v); err != nil {
			return 0, err
		}
	}
	// reverse direction: every registered RV has an entry
	for name := range g.rvs {
		if _, ok := a[name]; !ok {
			return 0, fmt.Errorf("rv %q not assigned: %w", name, ErrInvalidAssignment)
		}
	}

	prod := 1.0
	for _, f := range g.factors {
		val, err := f.Eval(a)
		if err != nil {
			return 0, err
		}
		prod *= val
	}

	return prod, nil
}

// String implements fmt.Stringer with a short structural summary.
func (g *Graph) String() string {
	return fmt.Sprintf("core.Graph{%d rvs, %d factors}", len(g.rvs), len(g.factors))
}

// rvSetKey builds a canonical key for a Factor's unordered RV set.
func rvSetKey(f *Factor) string {
	names := make([]string, len(f.rvs))
	for i, rv := range f.rvs {
		names[i] = rv.Name()
	}
	sort.Strings(names)

	return strings.Join(names, "\x1f")
}
