package bp

import (
	"fmt"
	"math"

	"github.com/katalvlaran/facgraph/core"
)

// node is one schedulable unit of the sweep: an RV state or a Factor state.
// recompute derives the next sweep's outgoing messages from the prior
// sweep's values and reports local convergence; commit publishes them.
// The split keeps every update within a sweep reading only prior-sweep
// messages, regardless of scheduling order.
type node interface {
	degree() int
	initMessages()
	recompute() (bool, error)
	commit()
}

// rvEdge is one RV→Factor connection: the neighboring Factor's state and
// the position of this RV within that Factor's attachment order.
type rvEdge struct {
	fs  *factorState
	pos int
}

// rvState owns the outgoing messages of one RV, one vector per attached
// Factor, aligned with the RV's attachment order.
type rvState struct {
	rv       *core.RV
	edges    []rvEdge
	outgoing [][]float64 // current sweep's published messages
	pending  [][]float64 // next sweep's messages, until commit
	eps      float64
	checked  bool
}

func (s *rvState) degree() int {
	return len(s.edges)
}

// initMessages resets every outgoing message to a uniform vector of ones of
// the RV's cardinality. Must run once before iterative updates begin.
func (s *rvState) initMessages() {
	s.outgoing = make([][]float64, len(s.edges))
	for i := range s.outgoing {
		s.outgoing[i] = onesVec(s.rv.Card())
	}
	s.pending = nil
}

// recompute builds, for each attached Factor f, the new RV→f message: the
// elementwise product of the incoming messages from all *other* attached
// Factors. The exclusion is computed as a product-of-all-except-one rather
// than dividing a total product by f's own message, so zero entries stay
// well-defined. Returns whether every new message is within eps of its
// prior value.
func (s *rvState) recompute() (bool, error) {
	if s.outgoing == nil {
		return false, fmt.Errorf("rv %q: %w", s.rv.Name(), ErrNotInitialized)
	}
	card := s.rv.Card()
	incoming := make([][]float64, len(s.edges))
	for i, e := range s.edges {
		m := e.fs.outgoing[e.pos]
		if s.checked && len(m) != card {
			return false, fmt.Errorf("rv %q expects %d entries, got %d from factor %s: %w",
				s.rv.Name(), card, len(m), e.fs.f, ErrMessageLength)
		}
		incoming[i] = m
	}

	conv := true
	s.pending = make([][]float64, len(s.edges))
	for i := range s.edges {
		msg := onesVec(card)
		for j, m := range incoming {
			if j == i {
				continue // exclude the target factor's own message
			}
			for v := 0; v < card; v++ {
				msg[v] *= m[v]
			}
		}
		if !within(s.outgoing[i], msg, s.eps) {
			conv = false
		}
		s.pending[i] = msg
	}

	return conv, nil
}

func (s *rvState) commit() {
	if s.pending != nil {
		s.outgoing = s.pending
		s.pending = nil
	}
}

// fEdge is one Factor→RV connection: the neighboring RV's state and the
// position of this Factor within that RV's attachment order.
type fEdge struct {
	rs  *rvState
	pos int
}

// factorState owns the outgoing messages of one Factor, one vector per
// attached RV, aligned with the Factor's attachment order. The belief is
// read through a flat row-major snapshot with a precomputed stride table,
// so the sum-product contraction is a single pass per target axis.
type factorState struct {
	f        *core.Factor
	edges    []fEdge
	data     []float64 // engine-owned row-major snapshot of the belief
	shape    []int     // belief axis lengths == attached RV cardinalities
	stride   []int     // stride[i] = product of shape[i+1:]
	outgoing [][]float64
	pending  [][]float64
	eps      float64
	checked  bool
}

func (s *factorState) degree() int {
	return len(s.edges)
}

// initMessages resets every outgoing message to a uniform vector of ones
// sized to the target RV's cardinality.
func (s *factorState) initMessages() {
	s.outgoing = make([][]float64, len(s.edges))
	for i, e := range s.edges {
		s.outgoing[i] = onesVec(e.rs.rv.Card())
	}
	s.pending = nil
}

// recompute builds, for each attached RV r, the new Factor→r message by the
// sum-product rule: every belief entry is weighted by the incoming messages
// of all non-target axes at their entry's values, then summed into the
// target axis. Each raw message is rescaled to mean 1 before the
// convergence comparison. Returns whether every new message is within eps
// of its prior value.
func (s *factorState) recompute() (bool, error) {
	if s.outgoing == nil {
		return false, fmt.Errorf("factor %s: %w", s.f, ErrNotInitialized)
	}
	incoming := make([][]float64, len(s.edges))
	for i, e := range s.edges {
		m := e.rs.outgoing[e.pos]
		if s.checked && len(m) != s.shape[i] {
			return false, fmt.Errorf("factor %s expects %d entries, got %d from rv %q: %w",
				s.f, s.shape[i], len(m), e.rs.rv.Name(), ErrMessageLength)
		}
		incoming[i] = m
	}

	conv := true
	s.pending = make([][]float64, len(s.edges))
	for t := range s.edges {
		out := make([]float64, s.shape[t])
		for flat, w := range s.data {
			// decode the multi-index while weighting by non-target messages
			p := w
			rem := flat
			ti := 0
			for i, st := range s.stride {
				vi := rem / st
				rem -= vi * st
				if i == t {
					ti = vi

					continue
				}
				p *= incoming[i][vi]
			}
			out[ti] += p
		}
		rescale(out)
		if !within(s.outgoing[t], out, s.eps) {
			conv = false
		}
		s.pending[t] = out
	}

	return conv, nil
}

func (s *factorState) commit() {
	if s.pending != nil {
		s.outgoing = s.pending
		s.pending = nil
	}
}

// onesVec returns a length-n vector of ones.
func onesVec(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}

	return v
}

// within reports whether cur and next agree elementwise within eps.
func within(cur, next []float64, eps float64) bool {
	for i := range cur {
		if math.Abs(cur[i]-next[i]) > eps {
			return false
		}
	}

	return true
}

// rescale normalizes msg to mean 1, bounding magnitudes across sweeps while
// keeping the all-ones initial state a fixed point on uniform beliefs.
// A zero-sum raw message is left untouched.
func rescale(msg []float64) {
	sum := 0.0
	for _, v := range msg {
		sum += v
	}
	if sum <= 0 {
		return
	}
	scale := float64(len(msg)) / sum
	for i := range msg {
		msg[i] *= scale
	}
}
