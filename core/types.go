package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for factor-graph construction and evaluation.
var (
	// ErrEmptyName indicates an RV was created with an empty name.
	ErrEmptyName = errors.New("core: name is empty")

	// ErrBadCardinality indicates an RV cardinality ≤ 0.
	ErrBadCardinality = errors.New("core: cardinality must be > 0")

	// ErrLabelCount indicates a label list whose length is neither 0 nor the cardinality.
	ErrLabelCount = errors.New("core: label count must equal cardinality")

	// ErrDuplicateLabel indicates two identical labels on one RV.
	ErrDuplicateLabel = errors.New("core: duplicate label")

	// ErrNilRV indicates a nil *RV was passed where an RV is required.
	ErrNilRV = errors.New("core: rv is nil")

	// ErrNilFactor indicates a nil *Factor was passed where a Factor is required.
	ErrNilFactor = errors.New("core: factor is nil")

	// ErrAlreadyAttached indicates an RV/Factor pair connected a second time.
	ErrAlreadyAttached = errors.New("core: already attached")

	// ErrDuplicateRV indicates an RV name collision within a Graph.
	ErrDuplicateRV = errors.New("core: rv name already registered")

	// ErrDuplicateFactor indicates the same Factor instance added twice.
	ErrDuplicateFactor = errors.New("core: factor already registered")

	// ErrStructuralDuplicate indicates a second Factor over the exact same
	// unordered RV set. This is a bug-catching heuristic, not a requirement
	// of factor graphs; disable it with WithoutChecks.
	ErrStructuralDuplicate = errors.New("core: factor over identical rv set already registered")

	// ErrNilBelief indicates SetBelief received a nil tensor.
	ErrNilBelief = errors.New("core: belief is nil")

	// ErrShapeMismatch indicates a belief tensor whose rank or axis lengths
	// disagree with the attached RVs.
	ErrShapeMismatch = errors.New("core: belief shape does not match attached rvs")

	// ErrNoBelief indicates Eval on a Factor with no belief set.
	ErrNoBelief = errors.New("core: factor belief not set")

	// ErrInvalidAssignment indicates an assignment with an unknown RV key,
	// a missing RV, or a value outside an RV's domain.
	ErrInvalidAssignment = errors.New("core: invalid assignment")
)

// Value addresses one value of an RV, either by integer index or — when the
// RV carries labels — by string label. It is resolved to a canonical integer
// index exactly once, at the boundary, by RV.Resolve.
type Value struct {
	label   string
	index   int
	byLabel bool
}

// ByIndex addresses a value by its integer index in 0..Card()-1.
func ByIndex(i int) Value {
	return Value{index: i}
}

// ByLabel addresses a value by its string label.
func ByLabel(s string) Value {
	return Value{label: s, byLabel: true}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.byLabel {
		return fmt.Sprintf("%q", v.label)
	}

	return fmt.Sprintf("%d", v.index)
}

// Assignment maps RV names to values. Graph.Joint requires it to cover
// exactly the RVs of the graph; Factor.Eval requires at least the RVs the
// factor touches.
type Assignment map[string]Value

// GraphOption configures behavior of a Graph at creation.
type GraphOption func(g *Graph)

// WithoutChecks disables the checked invariant layers on this Graph: the
// structural-duplicate scan in AddFactor and the per-sweep message
// assertions in the bp package. Cheap construction validation and
// assignment-coverage checks stay on regardless; this trades safety for
// speed, not correctness.
func WithoutChecks() GraphOption {
	return func(g *Graph) { g.checked = false }
}
