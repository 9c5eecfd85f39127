package bp

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Numeric policy and iteration defaults.
const (
	// DefaultEpsilon is the elementwise tolerance of the convergence test.
	DefaultEpsilon = 1e-4

	// DefaultMaxIters bounds the number of sweeps before the loop cuts off.
	DefaultMaxIters = 50
)

// Sentinel errors for belief-propagation execution.
var (
	// ErrGraphNil is returned if a nil graph pointer is passed.
	ErrGraphNil = errors.New("bp: graph is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("bp: invalid option supplied")

	// ErrMissingBelief is returned when a registered Factor has no belief set.
	ErrMissingBelief = errors.New("bp: factor belief not set")

	// ErrForeignRV is returned when a Factor touches an RV that was never
	// added to the graph.
	ErrForeignRV = errors.New("bp: factor references rv not in graph")

	// ErrForeignFactor is returned when an RV is attached to a Factor that
	// was never added to the graph.
	ErrForeignFactor = errors.New("bp: rv attached to factor not in graph")

	// ErrNotInitialized is returned when messages are recomputed before
	// initialization. This guards a programming error inside the engine.
	ErrNotInitialized = errors.New("bp: messages not initialized")

	// ErrMessageLength is returned in checked mode when a message's length
	// disagrees with its RV's cardinality.
	ErrMessageLength = errors.New("bp: message length does not match cardinality")

	// ErrUnknownRV is returned by Result.Marginal for an unknown RV name.
	ErrUnknownRV = errors.New("bp: unknown rv name")
)

// Option configures a belief-propagation run via functional arguments.
// If an Option is invalid (e.g. negative Epsilon), it is recorded internally
// and surfaced as ErrOptionViolation when Run is invoked.
type Option func(*Options)

// Options holds parameters for one belief-propagation run.
type Options struct {
	// Ctx allows cancellation and deadlines, checked once per sweep.
	Ctx context.Context

	// Epsilon is the elementwise tolerance of the convergence test.
	Epsilon float64

	// MaxIters bounds the number of sweeps.
	MaxIters int

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with the documented defaults:
// context.Background(), DefaultEpsilon, DefaultMaxIters.
func DefaultOptions() Options {
	return Options{
		Ctx:      context.Background(),
		Epsilon:  DefaultEpsilon,
		MaxIters: DefaultMaxIters,
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithEpsilon sets the convergence tolerance. Negative, NaN, or infinite
// values are invalid → ErrOptionViolation.
func WithEpsilon(eps float64) Option {
	return func(o *Options) {
		if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
			o.err = fmt.Errorf("%w: Epsilon must be finite and non-negative (%g)", ErrOptionViolation, eps)

			return
		}
		o.Epsilon = eps
	}
}

// WithMaxIters sets the sweep cap. Values below 1 are invalid →
// ErrOptionViolation.
func WithMaxIters(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: MaxIters must be ≥ 1 (%d)", ErrOptionViolation, n)

			return
		}
		o.MaxIters = n
	}
}

// Result holds the outcome of a belief-propagation run:
//   - Converged: whether every node's messages settled within Epsilon in
//     one sweep before the iteration cap. Non-convergence is an observable
//     outcome, not an error; the marginals are approximate either way.
//   - Iterations: number of sweeps executed.
//   - Marginals: per-RV normalized distribution over that RV's values,
//     indexed by value index.
type Result struct {
	Converged  bool
	Iterations int
	Marginals  map[string][]float64
}

// Marginal returns the normalized marginal distribution of the named RV.
// Returns ErrUnknownRV if the name is not part of the run's graph.
func (r *Result) Marginal(name string) ([]float64, error) {
	m, ok := r.Marginals[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRV, name)
	}

	return m, nil
}
