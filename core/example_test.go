package core_test

import (
	"fmt"

	"github.com/katalvlaran/facgraph/core"
	"github.com/katalvlaran/facgraph/tensor"
)

// ExampleGraph_Joint builds a two-variable factor graph and scores one full
// assignment against it.
func ExampleGraph_Joint() {
	a, _ := core.NewRV("a", 3)
	b, _ := core.NewRV("b", 2)

	fb, _ := core.NewFactor("f_b", b)
	_ = fb.SetBelief(must(tensor.FromFlat([]float64{0.3, 0.7}, 2)))

	fab, _ := core.NewFactor("f_ab", a, b)
	_ = fab.SetBelief(must(tensor.FromFlat(
		[]float64{0.2, 0.8, 0.4, 0.6, 0.1, 0.9}, 3, 2)))

	g := core.NewGraph()
	_ = g.AddRV(a)
	_ = g.AddRV(b)
	_ = g.AddFactor(fb)
	_ = g.AddFactor(fab)

	score, _ := g.Joint(core.Assignment{"a": core.ByIndex(0), "b": core.ByIndex(1)})
	fmt.Printf("%s joint(a=0,b=1)=%.2f\n", g, score)
	// Output:
	// core.Graph{2 rvs, 2 factors} joint(a=0,b=1)=0.56
}

// ExampleGraph_BestJoint exhaustively searches the same graph for the
// maximizing assignment.
func ExampleGraph_BestJoint() {
	a, _ := core.NewRV("a", 3)
	b, _ := core.NewRV("b", 2)

	fb, _ := core.NewFactor("f_b", b)
	_ = fb.SetBelief(must(tensor.FromFlat([]float64{0.3, 0.7}, 2)))

	fab, _ := core.NewFactor("f_ab", a, b)
	_ = fab.SetBelief(must(tensor.FromFlat(
		[]float64{0.2, 0.8, 0.4, 0.6, 0.1, 0.9}, 3, 2)))

	g := core.NewGraph()
	_ = g.AddRV(a)
	_ = g.AddRV(b)
	_ = g.AddFactor(fb)
	_ = g.AddFactor(fab)

	best, score, _ := g.BestJoint()
	fmt.Printf("a=%d b=%d score=%.2f\n", best["a"], best["b"], score)
	// Output:
	// a=2 b=1 score=0.63
}

// must unwraps tensor construction in examples.
func must(d *tensor.Dense, err error) *tensor.Dense {
	if err != nil {
		panic(err)
	}

	return d
}
