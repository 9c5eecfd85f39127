// Package facgraph is an in-memory toolkit for discrete probabilistic
// graphical models, built around factor graphs and message passing.
//
// 🚀 What is facgraph?
//
//	A small, pure-Go library that brings together:
//		• Core primitives: random variables, factors, and the bipartite
//		  graph connecting them, with validated construction
//		• Belief tensors: dense n-dimensional tables over variable values
//		• Exact evaluation: unnormalized joint scores and brute-force
//		  optimal-assignment search for validation-scale graphs
//		• Approximate inference: loopy belief propagation (sum-product)
//		  with convergence detection and per-variable marginals
//
// ✨ Why choose facgraph?
//
//   - Beginner-friendly – minimal API, clear, intuitive naming
//   - Rock-solid guarantees – sentinel errors, checked invariants, in-code docs
//   - Pure Go – no cgo, no hidden deps
//   - Deterministic – stable node ordering, reproducible sweeps
//
// Under the hood, everything is organized under three subpackages:
//
//	core/   — RV, Factor, and Graph types; joint evaluation & exhaustive search
//	tensor/ — dense n-dimensional float64 tensors backing factor beliefs
//	bp/     — loopy belief propagation over a core.Graph
//
// Quick ASCII example:
//
//	    a       b
//	     \     / \
//	     f(a,b)  f(b)
//
//	two random variables, one pairwise factor, one unary factor.
//
// Construction order matters: create RVs, connect them with factors, set
// beliefs on the factors, register everything with a Graph, then query
// Joint/BestJoint or run bp.Run for marginals.
//
//	go get github.com/katalvlaran/facgraph
package facgraph
