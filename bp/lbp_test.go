package bp_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/facgraph/bp"
	"github.com/katalvlaran/facgraph/core"
	"github.com/katalvlaran/facgraph/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustRV builds an RV or fails the test.
func mustRV(t *testing.T, name string, card int) *core.RV {
	t.Helper()
	rv, err := core.NewRV(name, card)
	require.NoError(t, err)

	return rv
}

// mustFactor builds a Factor with a belief or fails the test.
func mustFactor(t *testing.T, name string, data []float64, shape []int, rvs ...*core.RV) *core.Factor {
	t.Helper()
	f, err := core.NewFactor(name, rvs...)
	require.NoError(t, err)
	b, err := tensor.FromFlat(data, shape...)
	require.NoError(t, err)
	require.NoError(t, f.SetBelief(b))

	return f
}

// exactMarginals computes reference marginals by enumerating Joint over
// every full assignment. Exponential, so test-scale graphs only.
func exactMarginals(t *testing.T, g *core.Graph) map[string][]float64 {
	t.Helper()
	rvs := g.RVs()
	out := make(map[string][]float64, len(rvs))
	for _, rv := range rvs {
		out[rv.Name()] = make([]float64, rv.Card())
	}

	cur := make(core.Assignment, len(rvs))
	var recurse func(k int)
	recurse = func(k int) {
		if k == len(rvs) {
			score, err := g.Joint(cur)
			require.NoError(t, err)
			for _, rv := range rvs {
				idx, rerr := rv.Resolve(cur[rv.Name()])
				require.NoError(t, rerr)
				out[rv.Name()][idx] += score
			}

			return
		}
		for v := 0; v < rvs[k].Card(); v++ {
			cur[rvs[k].Name()] = core.ByIndex(v)
			recurse(k + 1)
		}
	}
	recurse(0)

	for _, m := range out {
		sum := 0.0
		for _, v := range m {
			sum += v
		}
		require.Positive(t, sum)
		for i := range m {
			m[i] /= sum
		}
	}

	return out
}

// TestRun_NilGraph verifies ErrGraphNil on a nil graph.
func TestRun_NilGraph(t *testing.T) {
	_, err := bp.Run(nil)
	assert.ErrorIs(t, err, bp.ErrGraphNil)
}

// TestRun_OptionViolation verifies invalid options are surfaced before any work.
func TestRun_OptionViolation(t *testing.T) {
	g := core.NewGraph()

	_, err := bp.Run(g, bp.WithEpsilon(-1))
	assert.ErrorIs(t, err, bp.ErrOptionViolation, "negative Epsilon must error")

	_, err = bp.Run(g, bp.WithMaxIters(0))
	assert.ErrorIs(t, err, bp.ErrOptionViolation, "MaxIters < 1 must error")
}

// TestRun_MissingBelief verifies a registered Factor without a belief is
// rejected before iteration.
func TestRun_MissingBelief(t *testing.T) {
	a := mustRV(t, "a", 2)
	f, err := core.NewFactor("f_a", a)
	require.NoError(t, err)

	g := core.NewGraph()
	require.NoError(t, g.AddRV(a))
	require.NoError(t, g.AddFactor(f))

	_, err = bp.Run(g)
	assert.ErrorIs(t, err, bp.ErrMissingBelief)
}

// TestRun_ForeignRV verifies a Factor touching an unregistered RV is rejected.
func TestRun_ForeignRV(t *testing.T) {
	a := mustRV(t, "a", 2)
	b := mustRV(t, "b", 2)
	f := mustFactor(t, "f_ab", []float64{1, 1, 1, 1}, []int{2, 2}, a, b)

	g := core.NewGraph()
	require.NoError(t, g.AddRV(a)) // b deliberately left out
	require.NoError(t, g.AddFactor(f))

	_, err := bp.Run(g)
	assert.ErrorIs(t, err, bp.ErrForeignRV)
}

// TestRun_ForeignFactor verifies an RV attached to an unregistered Factor
// is rejected.
func TestRun_ForeignFactor(t *testing.T) {
	a := mustRV(t, "a", 2)
	mustFactor(t, "f_a", []float64{1, 1}, []int{2}, a) // never added to g

	g := core.NewGraph()
	require.NoError(t, g.AddRV(a))

	_, err := bp.Run(g)
	assert.ErrorIs(t, err, bp.ErrForeignFactor)
}

// TestRun_AfterFailedFactorConstruction verifies a rejected NewFactor leaves
// its RVs clean: a graph rebuilt over the same RV runs without complaint.
func TestRun_AfterFailedFactorConstruction(t *testing.T) {
	a := mustRV(t, "a", 2)
	_, err := core.NewFactor("bad", a, a)
	require.ErrorIs(t, err, core.ErrAlreadyAttached)

	f := mustFactor(t, "f_a", []float64{8, 2}, []int{2}, a)
	g := core.NewGraph()
	require.NoError(t, g.AddRV(a))
	require.NoError(t, g.AddFactor(f))

	res, err := bp.Run(g)
	require.NoError(t, err)
	assert.True(t, res.Converged)

	m, err := res.Marginal("a")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.8, 0.2}, m, 1e-9)
}

// TestRun_Cancellation verifies the run honors a canceled context.
func TestRun_Cancellation(t *testing.T) {
	r := mustRV(t, "r", 2)
	f := mustFactor(t, "f_r", []float64{8, 2}, []int{2}, r)

	g := core.NewGraph()
	require.NoError(t, g.AddRV(r))
	require.NoError(t, g.AddFactor(f))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := bp.Run(g, bp.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

// TestRun_UnaryFactorMarginal verifies the single-RV scenario: belief
// [8, 2] yields the normalized marginal [0.8, 0.2], converging after one
// productive sweep plus one confirming sweep.
func TestRun_UnaryFactorMarginal(t *testing.T) {
	r := mustRV(t, "r", 2)
	f := mustFactor(t, "f_r", []float64{8, 2}, []int{2}, r)

	g := core.NewGraph()
	require.NoError(t, g.AddRV(r))
	require.NoError(t, g.AddFactor(f))

	res, err := bp.Run(g)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, 2, res.Iterations, "one sweep to move, one to confirm")

	m, err := res.Marginal("r")
	require.NoError(t, err)
	require.Len(t, m, 2)
	assert.InDelta(t, 0.8, m[0], 1e-9)
	assert.InDelta(t, 0.2, m[1], 1e-9)
}

// TestRun_UniformBeliefsFixedPoint verifies the all-ones initial messages
// are a fixed point on uniform beliefs: one sweep, converged, uniform
// marginals.
func TestRun_UniformBeliefsFixedPoint(t *testing.T) {
	a := mustRV(t, "a", 2)
	b := mustRV(t, "b", 3)
	f, err := core.NewFactor("f_ab", a, b)
	require.NoError(t, err)
	belief, err := tensor.NewDense(2, 3)
	require.NoError(t, err)
	belief.Fill(1)
	require.NoError(t, f.SetBelief(belief))

	g := core.NewGraph()
	require.NoError(t, g.AddRV(a))
	require.NoError(t, g.AddRV(b))
	require.NoError(t, g.AddFactor(f))

	res, err := bp.Run(g)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, 1, res.Iterations, "uniform in, uniform out: immediate fixed point")

	ma, err := res.Marginal("a")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, ma, 1e-9)

	mb, err := res.Marginal("b")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, mb, 1e-9)
}

// TestRun_TreeExactMarginals verifies LBP on an acyclic graph reproduces
// the brute-force marginals within the default cap and tolerance.
func TestRun_TreeExactMarginals(t *testing.T) {
	a := mustRV(t, "a", 3)
	b := mustRV(t, "b", 2)
	fb := mustFactor(t, "f_b", []float64{0.3, 0.7}, []int{2}, b)
	fab := mustFactor(t, "f_ab", []float64{0.2, 0.8, 0.4, 0.6, 0.1, 0.9}, []int{3, 2}, a, b)

	g := core.NewGraph()
	require.NoError(t, g.AddRV(a))
	require.NoError(t, g.AddRV(b))
	require.NoError(t, g.AddFactor(fb))
	require.NoError(t, g.AddFactor(fab))

	res, err := bp.Run(g)
	require.NoError(t, err)
	assert.True(t, res.Converged, "tree graphs must converge within the default cap")

	for name, want := range exactMarginals(t, g) {
		got, merr := res.Marginal(name)
		require.NoError(t, merr)
		assert.InDeltaSlice(t, want, got, 1e-3, "marginal of %q", name)
	}
}

// TestRun_ChainTreeExactMarginals runs a three-variable chain a-b-c with a
// unary prior, cross-checking every marginal against enumeration.
func TestRun_ChainTreeExactMarginals(t *testing.T) {
	a := mustRV(t, "a", 2)
	b := mustRV(t, "b", 3)
	c := mustRV(t, "c", 2)
	fa := mustFactor(t, "f_a", []float64{2, 1}, []int{2}, a)
	fab := mustFactor(t, "f_ab", []float64{1.0, 0.5, 2.5, 0.25, 3.0, 1.5}, []int{2, 3}, a, b)
	fbc := mustFactor(t, "f_bc", []float64{0.6, 0.4, 1.2, 0.8, 0.1, 2.0}, []int{3, 2}, b, c)

	g := core.NewGraph()
	for _, rv := range []*core.RV{a, b, c} {
		require.NoError(t, g.AddRV(rv))
	}
	for _, f := range []*core.Factor{fa, fab, fbc} {
		require.NoError(t, g.AddFactor(f))
	}

	res, err := bp.Run(g)
	require.NoError(t, err)
	assert.True(t, res.Converged)

	for name, want := range exactMarginals(t, g) {
		got, merr := res.Marginal(name)
		require.NoError(t, merr)
		assert.InDeltaSlice(t, want, got, 1e-3, "marginal of %q", name)
	}
}

// TestRun_DisconnectedRV verifies an RV with no factors gets a uniform marginal.
func TestRun_DisconnectedRV(t *testing.T) {
	lone := mustRV(t, "lone", 4)
	g := core.NewGraph()
	require.NoError(t, g.AddRV(lone))

	res, err := bp.Run(g)
	require.NoError(t, err)
	assert.True(t, res.Converged)

	m, err := res.Marginal("lone")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.25, 0.25, 0.25, 0.25}, m, 1e-9)
}

// TestResult_Marginal_UnknownRV verifies the accessor's error path.
func TestResult_Marginal_UnknownRV(t *testing.T) {
	r := mustRV(t, "r", 2)
	f := mustFactor(t, "f_r", []float64{1, 1}, []int{2}, r)

	g := core.NewGraph()
	require.NoError(t, g.AddRV(r))
	require.NoError(t, g.AddFactor(f))

	res, err := bp.Run(g)
	require.NoError(t, err)

	_, err = res.Marginal("missing")
	assert.ErrorIs(t, err, bp.ErrUnknownRV)
}

// TestRun_IterationCapRespected verifies MaxIters bounds the loop and
// non-convergence is reported, not raised.
func TestRun_IterationCapRespected(t *testing.T) {
	r := mustRV(t, "r", 2)
	f := mustFactor(t, "f_r", []float64{8, 2}, []int{2}, r)

	g := core.NewGraph()
	require.NoError(t, g.AddRV(r))
	require.NoError(t, g.AddFactor(f))

	// one iteration is not enough to confirm convergence here
	res, err := bp.Run(g, bp.WithMaxIters(1))
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 1, res.Iterations)

	// the marginal is still returned (approximate result either way)
	m, merr := res.Marginal("r")
	require.NoError(t, merr)
	assert.InDelta(t, 0.8, m[0], 1e-9)
}
