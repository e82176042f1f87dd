package regression

import "math"

// tieTolerance is the R² difference below which two fits count as equal.
const tieTolerance = 1e-12

// SelectBest returns the successful result with the highest R². Fits within
// tieTolerance of each other tie, and the family earlier in Models wins.
// ok is false when every result failed.
func SelectBest(results []Result) (best Model, ok bool) {
	var bestR2 float64
	for _, r := range results {
		if r.Err != nil || r.Solution == nil {
			continue
		}
		switch {
		case !ok:
		case r.Goodness.R2 > bestR2+tieTolerance:
		case math.Abs(r.Goodness.R2-bestR2) <= tieTolerance && r.Model.rank() < best.rank():
		default:
			continue
		}
		best, bestR2, ok = r.Model, r.Goodness.R2, true
	}
	return best, ok
}
