// Package bp implements loopy belief propagation (sum-product message
// passing) over a factor graph represented by *core.Graph, producing an
// approximate marginal distribution for every random variable.
//
// Algorithm Outline:
//  1. Build one message state per node (RV or Factor): one outgoing vector
//     per graph edge, each initialized to all ones.
//  2. Order the combined node list ascending by degree. This is a
//     heuristic, not a correctness requirement — it approximates
//     leaf-to-root propagation early in the run, but sum-product updates
//     are order-independent at the fixed point.
//  3. Sweep: every node recomputes its outgoing messages from the prior
//     sweep's incoming messages.
//     - RV → Factor: the elementwise product of the messages from all
//       *other* attached Factors. Built as a product-of-all-except-one, so
//       zero entries in any incoming message stay well-defined (no
//       division).
//     - Factor → RV: the belief tensor, weighted along every non-target
//       axis by that axis's incoming RV message, then summed over all axes
//       except the target's. Each raw message is rescaled to mean 1 to keep
//       repeated products from overflowing or vanishing across sweeps.
//     New messages are published only after the whole sweep has been
//     computed, so every update reads exactly the previous sweep's values.
//  4. Stop when every node's new messages are within Epsilon of the prior
//     sweep's, or after MaxIters sweeps. Non-convergence is not an error:
//     Result.Converged reports which way the loop ended, and the marginals
//     are returned either way (convergence is not guaranteed on cyclic
//     graphs; on trees the result is exact).
//  5. Marginals: per RV, the normalized elementwise product of all its
//     final incoming Factor messages.
//
// Complexity per sweep: O(Σ_f deg(f)·size(belief_f) + Σ_v deg(v)²·card(v)).
//
// # API
//
//	res, err := bp.Run(g,
//	    bp.WithEpsilon(1e-4),
//	    bp.WithMaxIters(50),
//	    bp.WithContext(ctx),
//	)
//	// res.Converged, res.Iterations, res.Marginals["a"]
//
// Defaults: Epsilon 1e-4, MaxIters 50, context.Background().
//
// # Errors
//
//	ErrGraphNil        - nil *core.Graph.
//	ErrOptionViolation - invalid option value (negative Epsilon, MaxIters < 1).
//	ErrMissingBelief   - a registered Factor has no belief tensor.
//	ErrForeignRV       - a Factor touches an RV that was never added to the graph.
//	ErrForeignFactor   - an RV is attached to a Factor that was never added.
//	ErrNotInitialized  - message recomputation before initialization.
//	ErrMessageLength   - checked mode: a message's length disagrees with its
//	                     RV's cardinality.
//	context.Canceled / context.DeadlineExceeded - the run's context ended.
//
// # Integration
//
//   - Relies on github.com/katalvlaran/facgraph/core for graph structure.
//   - Reads beliefs through github.com/katalvlaran/facgraph/tensor.
//   - Checked-mode assertions follow the owning Graph's Checked() flag.
package bp
