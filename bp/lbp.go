package bp

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/facgraph/core"
)

// Run executes loopy belief propagation on g, applying any number of
// functional Options, and returns the per-RV marginals.
//
// Returns ErrGraphNil or ErrOptionViolation for invalid input,
// ErrMissingBelief / ErrForeignRV / ErrForeignFactor for an inconsistently
// built graph, or the context's error on cancellation. Non-convergence
// within MaxIters is not an error; inspect Result.Converged.
func Run(g *core.Graph, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	// Build options and catch any invalid ones immediately
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	eng, err := newEngine(g, o)
	if err != nil {
		return nil, err
	}

	return eng.run(o)
}

// engine holds the degree-sorted node schedule and the RV states for
// marginal extraction.
type engine struct {
	nodes []node
	rvs   []*rvState
}

// newEngine validates the graph's edge consistency and wires one message
// state per node, with cross-references resolved once up front.
func newEngine(g *core.Graph, o Options) (*engine, error) {
	checked := g.Checked()

	// RV states, in name-sorted order for a reproducible schedule
	rvList := g.RVs()
	rvStates := make([]*rvState, 0, len(rvList))
	rvMap := make(map[*core.RV]*rvState, len(rvList))
	for _, rv := range rvList {
		s := &rvState{rv: rv, eps: o.Epsilon, checked: checked}
		rvMap[rv] = s
		rvStates = append(rvStates, s)
	}

	// Factor states, in insertion order
	factors := g.Factors()
	fStates := make([]*factorState, 0, len(factors))
	fMap := make(map[*core.Factor]*factorState, len(factors))
	for _, f := range factors {
		b := f.Belief()
		if b == nil {
			return nil, fmt.Errorf("factor %s: %w", f, ErrMissingBelief)
		}
		// snapshot the belief into an engine-owned slice, so mutating the
		// tensor after Run starts cannot skew a sweep in flight
		data := make([]float64, b.Size())
		for i := range data {
			v, ferr := b.Flat(i)
			if ferr != nil {
				return nil, ferr
			}
			data[i] = v
		}
		s := &factorState{
			f:       f,
			data:    data,
			shape:   b.Shape(),
			eps:     o.Epsilon,
			checked: checked,
		}
		// row-major strides over the belief shape; last axis varies fastest
		s.stride = make([]int, len(s.shape))
		acc := 1
		for i := len(s.shape) - 1; i >= 0; i-- {
			s.stride[i] = acc
			acc *= s.shape[i]
		}
		for _, rv := range f.RVs() {
			rs, ok := rvMap[rv]
			if !ok {
				return nil, fmt.Errorf("factor %s touches rv %q: %w", f, rv.Name(), ErrForeignRV)
			}
			// core.Factor.Attach guarantees the RV-side back-reference
			s.edges = append(s.edges, fEdge{rs: rs, pos: indexOfFactor(rv, f)})
		}
		fMap[f] = s
		fStates = append(fStates, s)
	}

	// RV-side edges; every factor attached to a graph RV must be registered
	for _, rs := range rvStates {
		for _, f := range rs.rv.Factors() {
			fs, ok := fMap[f]
			if !ok {
				return nil, fmt.Errorf("rv %q attached to factor %s: %w", rs.rv.Name(), f, ErrForeignFactor)
			}
			rs.edges = append(rs.edges, rvEdge{fs: fs, pos: indexOfRV(f, rs.rv)})
		}
	}

	// Combined schedule, ascending by degree. Stable sort keeps the
	// RV-then-factor base order on ties, so runs are reproducible.
	nodes := make([]node, 0, len(rvStates)+len(fStates))
	for _, s := range rvStates {
		nodes = append(nodes, s)
	}
	for _, s := range fStates {
		nodes = append(nodes, s)
	}
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].degree() < nodes[j].degree() })

	return &engine{nodes: nodes, rvs: rvStates}, nil
}

// run executes the sweep loop: recompute every node from the prior sweep's
// messages, then commit the whole sweep at once, until all nodes report
// convergence or the iteration cap is reached.
func (e *engine) run(o Options) (*Result, error) {
	for _, n := range e.nodes {
		n.initMessages()
	}

	res := &Result{}
	for res.Iterations < o.MaxIters && !res.Converged {
		// cancellation check (once per sweep)
		select {
		case <-o.Ctx.Done():
			return nil, o.Ctx.Err()
		default:
		}

		res.Iterations++
		conv := true
		for _, n := range e.nodes {
			c, err := n.recompute()
			if err != nil {
				return nil, err
			}
			conv = conv && c
		}
		// barrier: publish only after every node has computed
		for _, n := range e.nodes {
			n.commit()
		}
		res.Converged = conv
	}

	res.Marginals = e.marginals()

	return res, nil
}

// marginals builds, per RV, the normalized elementwise product of all its
// final incoming factor messages.
func (e *engine) marginals() map[string][]float64 {
	out := make(map[string][]float64, len(e.rvs))
	for _, rs := range e.rvs {
		m := onesVec(rs.rv.Card())
		for _, edge := range rs.edges {
			msg := edge.fs.outgoing[edge.pos]
			for v := range m {
				m[v] *= msg[v]
			}
		}
		sum := 0.0
		for _, v := range m {
			sum += v
		}
		if sum > 0 {
			for v := range m {
				m[v] /= sum
			}
		}
		out[rs.rv.Name()] = m
	}

	return out
}

// indexOfFactor returns the position of f in rv's attachment order.
// core.Factor.Attach registers both sides, so f is always present.
func indexOfFactor(rv *core.RV, f *core.Factor) int {
	for i, attached := range rv.Factors() {
		if attached == f {
			return i
		}
	}

	return -1
}

// indexOfRV returns the position of rv in f's attachment order.
func indexOfRV(f *core.Factor, rv *core.RV) int {
	for i, attached := range f.RVs() {
		if attached == rv {
			return i
		}
	}

	return -1
}
