// Package core defines the central Graph, RV, and Factor types of a discrete
// factor graph, and provides validated primitives for building and evaluating
// them.
//
// A factor graph is a bipartite graph: RV nodes (discrete random variables
// with a finite, optionally labeled value set) on one side, Factor nodes
// (dense belief tensors over an ordered tuple of RVs) on the other.
// Construction order matters:
//
//  1. create RVs (NewRV)
//  2. connect them with Factors (NewFactor / Factor.Attach)
//  3. set beliefs on the Factors (Factor.SetBelief)
//  4. register everything with a Graph (AddRV, AddFactor)
//  5. query Joint / BestJoint, or run bp.Run for marginals
//
// The RV↔Factor attachment is an intentional bidirectional relationship:
// Factor.Attach registers both sides, and a given pair may be connected at
// most once. Attaching an RV to a Factor after a belief was set clears the
// belief, since the tensor rank would no longer match.
//
// Graph.Joint computes the unnormalized joint score ∏ₐ fₐ(xₐ) of a full
// assignment; Graph.BestJoint exhaustively searches for the maximizing
// assignment (exponential, validation-scale graphs only).
//
// Errors:
//
//	ErrEmptyName           - RV name is the empty string.
//	ErrBadCardinality      - RV cardinality is not positive.
//	ErrLabelCount          - label list length differs from the cardinality.
//	ErrDuplicateLabel      - two labels collide (labels must biject with indices).
//	ErrNilRV / ErrNilFactor - nil node pointer.
//	ErrAlreadyAttached     - re-connecting an RV/Factor pair.
//	ErrDuplicateRV         - Graph already holds an RV with that name.
//	ErrDuplicateFactor     - Graph already holds that Factor instance.
//	ErrStructuralDuplicate - Graph already holds a Factor over the same RV set.
//	ErrNilBelief           - SetBelief received a nil tensor.
//	ErrShapeMismatch       - belief rank or axis lengths disagree with the RVs.
//	ErrNoBelief            - Eval on a Factor whose belief is unset.
//	ErrInvalidAssignment   - unknown RV key, missing RV, or out-of-domain value.
package core
