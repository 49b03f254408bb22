package decomposition

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultEpsilon is the neighborhood radius in normalized objective space.
const DefaultEpsilon = 0.125

// HighTradeoff marks the members of a front where a small gain in some
// objectives costs a large sacrifice in others.
//
// For every point the tradeoff against each neighbor is the summed sacrifice
// divided by the summed gain; a point's tradeoff is the smallest of these.
// Points whose tradeoff lies at least two standard deviations above the mean
// are selected.
type HighTradeoff struct {
	Epsilon float64
}

// Tradeoffs returns the tradeoff of every row of F. Rows without a defined
// tradeoff get NaN, rows that dominate all their neighbors get +Inf.
func (h HighTradeoff) Tradeoffs(F [][]float64) []float64 {
	n := len(F)
	mu := make([]float64, n)
	if n == 0 {
		return mu
	}
	eps := h.Epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	normalized := Normalize(F)
	minNeighbors := 2 * len(F[0])
	if minNeighbors > n-1 {
		minNeighbors = n - 1
	}

	diff := make([]float64, len(F[0]))
	for i := range normalized {
		mu[i] = math.NaN()
		for _, j := range neighbors(normalized, i, eps, minNeighbors) {
			floats.SubTo(diff, normalized[j], normalized[i])
			sacrifice, gain := 0.0, 0.0
			for _, d := range diff {
				if d > 0 {
					sacrifice += d
				} else {
					gain -= d
				}
			}
			var t float64
			switch {
			case gain > 0:
				t = sacrifice / gain
			case sacrifice > 0:
				t = math.Inf(1)
			default:
				continue
			}
			if math.IsNaN(mu[i]) || t < mu[i] {
				mu[i] = t
			}
		}
	}
	return mu
}

// Do returns the selection mask over F. Points that dominate all their
// neighbors have an unbounded tradeoff and are always selected. Among the
// finite tradeoffs the outliers are selected; when there is none but the
// largest still deviates by more than one standard deviation and nothing
// else was selected, that point is.
func (h HighTradeoff) Do(F [][]float64) []bool {
	mask := make([]bool, len(F))
	mu := h.Tradeoffs(F)

	var finite []int
	values := make([]float64, 0, len(mu))
	found := false
	for i, v := range mu {
		switch {
		case math.IsInf(v, 1):
			mask[i] = true
			found = true
		case !math.IsNaN(v):
			finite = append(finite, i)
			values = append(values, v)
		}
	}
	if len(values) < 2 {
		return mask
	}

	mean, sigma := stat.PopMeanStdDev(values, nil)
	if sigma == 0 {
		return mask
	}
	for k, v := range values {
		if (v-mean)/sigma >= 2 {
			mask[finite[k]] = true
			found = true
		}
	}
	if !found {
		best := floats.MaxIdx(values)
		if (values[best]-mean)/sigma > 1 {
			mask[finite[best]] = true
		}
	}
	return mask
}

// neighbors returns the points within eps of point i, or its minCount
// nearest points when fewer lie within eps.
func neighbors(F [][]float64, i int, eps float64, minCount int) []int {
	type candidate struct {
		index int
		dist  float64
	}
	candidates := make([]candidate, 0, len(F)-1)
	for j := range F {
		if j != i {
			candidates = append(candidates, candidate{j, floats.Distance(F[i], F[j], 2)})
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].dist < candidates[b].dist
	})

	var out []int
	for k, c := range candidates {
		if c.dist > eps && k >= minCount {
			break
		}
		out = append(out, c.index)
	}
	return out
}
