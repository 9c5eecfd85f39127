package core

// BestJoint exhaustively enumerates every full assignment and returns the
// one maximizing Joint, together with its score, as a map from RV name to
// value index. Enumeration is deterministic: RVs in ascending name order,
// values ascending within each RV. The first assignment reaching the
// maximum is kept; later equal scores do not replace it. When every
// assignment scores 0 the returned map is nil with score 0.
//
// Complexity: O(∏ᵢ cardᵢ · cost(Joint)) — exponential in the number of RVs.
// This routine exists for correctness-checking small graphs, not for
// production inference; use bp.Run for anything beyond a handful of RVs.
func (g *Graph) BestJoint() (map[string]int, float64, error) {
	order := g.RVs()
	cur := make(Assignment, len(order))

	var best map[string]int
	bestScore := 0.0

	var recurse func(k int) error
	recurse = func(k int) error {
		// base case: all RVs assigned, score the leaf
		if k == len(order) {
			score, err := g.Joint(cur)
			if err != nil {
				return err
			}
			if score > bestScore {
				bestScore = score
				best = make(map[string]int, len(order))
				for _, rv := range order {
					idx, rerr := rv.Resolve(cur[rv.Name()])
					if rerr != nil {
						return rerr
					}
					best[rv.Name()] = idx
				}
			}

			return nil
		}

		rv := order[k]
		for v := 0; v < rv.Card(); v++ {
			cur[rv.Name()] = ByIndex(v)
			if err := recurse(k + 1); err != nil {
				return err
			}
		}
		delete(cur, rv.Name())

		return nil
	}

	if err := recurse(0); err != nil {
		return nil, 0, err
	}

	return best, bestScore, nil
}
