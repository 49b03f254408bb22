// Package decomposition turns a set of objective vectors into scalar scores
// or masks that single out members of a Pareto front.
package decomposition

import (
	"gonum.org/v1/gonum/floats"
)

// Normalize maps every column of F onto [0, 1] using the ideal and nadir
// points of F itself. Columns with no spread map to 0.
func Normalize(F [][]float64) [][]float64 {
	if len(F) == 0 {
		return nil
	}
	m := len(F[0])
	ideal := make([]float64, m)
	nadir := make([]float64, m)
	copy(ideal, F[0])
	copy(nadir, F[0])
	for _, f := range F[1:] {
		for j, v := range f {
			if v < ideal[j] {
				ideal[j] = v
			}
			if v > nadir[j] {
				nadir[j] = v
			}
		}
	}

	span := make([]float64, m)
	floats.SubTo(span, nadir, ideal)
	for j := range span {
		if span[j] < 1e-12 {
			span[j] = 1
		}
	}

	out := make([][]float64, len(F))
	for i, f := range F {
		row := make([]float64, m)
		floats.SubTo(row, f, ideal)
		floats.Div(row, span)
		out[i] = row
	}
	return out
}

// Argmin returns the index of the smallest score, the first one on ties.
func Argmin(scores []float64) int {
	if len(scores) == 0 {
		return -1
	}
	return floats.MinIdx(scores)
}
