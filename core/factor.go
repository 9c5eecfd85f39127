package core

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/facgraph/tensor"
)

// Factor is a function over an ordered tuple of RVs, represented by a dense
// belief tensor. The RV order is semantically significant: axis i of the
// belief indexes the values of the i-th attached RV.
type Factor struct {
	name   string
	rvs    []*RV // attachment order defines the belief axis order
	belief *tensor.Dense
}

// NewFactor creates a Factor attached to the given RVs in order, registering
// both sides of every edge. The name is optional; an empty name renders as
// "f(rv1, rv2, ...)". Returns ErrNilRV or ErrAlreadyAttached (the same RV
// may appear at most once). The whole tuple is validated before any edge is
// registered, so a failed construction leaves every RV untouched.
// Complexity: O(k²) for the duplicate scans.
func NewFactor(name string, rvs ...*RV) (*Factor, error) {
	for i, rv := range rvs {
		if rv == nil {
			return nil, ErrNilRV
		}
		for _, prev := range rvs[:i] {
			if prev == rv {
				return nil, fmt.Errorf("rv %q appears twice: %w", rv.Name(), ErrAlreadyAttached)
			}
		}
	}

	f := &Factor{name: name}
	for _, rv := range rvs {
		if err := f.Attach(rv); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Attach connects rv as the next (last) axis of this Factor and registers
// the Factor on the RV side. Any belief set earlier is cleared, since its
// rank would no longer match the attached-RV count.
// Returns ErrNilRV or ErrAlreadyAttached.
func (f *Factor) Attach(rv *RV) error {
	if rv == nil {
		return ErrNilRV
	}
	for _, existing := range f.rvs {
		if existing == rv {
			return fmt.Errorf("rv %q to factor %s: %w", rv.Name(), f, ErrAlreadyAttached)
		}
	}
	// register the RV side first; it re-checks the edge from its end
	if err := rv.attach(f); err != nil {
		return err
	}
	f.rvs = append(f.rvs, rv)
	// rank no longer matches any previously set belief
	f.belief = nil

	return nil
}

// Name returns the Factor's optional name (may be empty; see String).
func (f *Factor) Name() string {
	return f.name
}

// Degree returns the number of RVs this Factor connects.
func (f *Factor) Degree() int {
	return len(f.rvs)
}

// RVs returns the attached RVs in attachment order (copied slice).
func (f *Factor) RVs() []*RV {
	return append([]*RV(nil), f.rvs...)
}

// Belief returns the current belief tensor, or nil when unset.
func (f *Factor) Belief() *tensor.Dense {
	return f.belief
}

// SetBelief replaces the belief tensor. The tensor's rank must equal the
// attached-RV count and every axis length must equal the corresponding RV's
// cardinality, in attachment order. Returns ErrNilBelief or ErrShapeMismatch.
// Complexity: O(rank).
func (f *Factor) SetBelief(b *tensor.Dense) error {
	if b == nil {
		return ErrNilBelief
	}
	shape := b.Shape()
	if len(shape) != len(f.rvs) {
		return fmt.Errorf("factor %s: rank %d for %d rvs: %w",
			f, len(shape), len(f.rvs), ErrShapeMismatch)
	}
	for i, rv := range f.rvs {
		if shape[i] != rv.Card() {
			return fmt.Errorf("factor %s: axis %d has length %d but rv %q has cardinality %d: %w",
				f, i, shape[i], rv.Name(), rv.Card(), ErrShapeMismatch)
		}
	}
	f.belief = b

	return nil
}

// Eval returns the single belief entry selected by the assignment, which
// must cover at least this Factor's attached RVs (extra entries are
// ignored). Each value is resolved to an integer index and the belief is
// indexed in attachment order. Returns ErrNoBelief or an error wrapping
// ErrInvalidAssignment.
// Complexity: O(rank).
func (f *Factor) Eval(a Assignment) (float64, error) {
	if f.belief == nil {
		return 0, fmt.Errorf("factor %s: %w", f, ErrNoBelief)
	}
	idx := make([]int, len(f.rvs))
	for i, rv := range f.rvs {
		v, ok := a[rv.Name()]
		if !ok {
			return 0, fmt.Errorf("factor %s: rv %q not assigned: %w",
				f, rv.Name(), ErrInvalidAssignment)
		}
		j, err := rv.Resolve(v)
		if err != nil {
			return 0, err
		}
		idx[i] = j
	}

	return f.belief.At(idx...)
}

// String implements fmt.Stringer: the Factor's name, or "f(rv1, ..., rvk)"
// when unnamed.
func (f *Factor) String() string {
	if f.name != "" {
		return f.name
	}
	names := make([]string, len(f.rvs))
	for i, rv := range f.rvs {
		names[i] = rv.Name()
	}

	return "f(" + strings.Join(names, ", ") + ")"
}
