package decomposition

import (
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultRho = 1e-4
	DefaultEps = 1e-10
)

// AASF is the augmented achievement scalarizing function
//
//	max_j(f_j / w_j) + Rho * sum_j(f_j / w_j)
//
// evaluated on objectives normalized by the ideal and nadir points of the
// population. Weights at or below Eps are replaced by Eps.
type AASF struct {
	Rho float64
	Eps float64
}

// NewAASF returns an AASF with the default augmentation.
func NewAASF() AASF {
	return AASF{Rho: DefaultRho, Eps: DefaultEps}
}

// Do scores every row of F for the given weight vector. Lower is better.
func (a AASF) Do(F [][]float64, weights []float64) []float64 {
	eps := a.Eps
	if eps <= 0 {
		eps = DefaultEps
	}
	w := make([]float64, len(weights))
	for j, v := range weights {
		if v <= eps {
			v = eps
		}
		w[j] = v
	}

	normalized := Normalize(F)
	scores := make([]float64, len(normalized))
	ratio := make([]float64, len(w))
	for i, f := range normalized {
		floats.DivTo(ratio, f, w)
		scores[i] = floats.Max(ratio) + a.Rho*floats.Sum(ratio)
	}
	return scores
}

// Best returns the index of the member of F minimizing the score for weights.
func (a AASF) Best(F [][]float64, weights []float64) int {
	return Argmin(a.Do(F, weights))
}
