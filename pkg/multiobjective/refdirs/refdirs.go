// Package refdirs generates weight vectors on the unit simplex. They serve as
// reference directions for many-objective solvers and as preference vectors
// for scalarization.
package refdirs

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/auit-project/layoutsolver/pkg/multiobjective/framework"
)

const (
	energyIterations   = 300
	energyLearningRate = 0.05
	energyDecay        = 0.99
)

// Corners returns the m unit vectors, one per objective.
func Corners(m int) [][]float64 {
	out := make([][]float64, m)
	for i := range out {
		out[i] = make([]float64, m)
		out[i][i] = 1
	}
	return out
}

// EqualWeights returns the vector (1/m, ..., 1/m).
func EqualWeights(m int) []float64 {
	w := make([]float64, m)
	for i := range w {
		w[i] = 1 / float64(m)
	}
	return w
}

// DasDennis returns the structured simplex lattice with the given number of
// partitions per objective.
func DasDennis(m, partitions int) [][]float64 {
	if m == 1 {
		return [][]float64{{1}}
	}
	var out [][]float64
	point := make([]int, m)
	var fill func(dim, left int)
	fill = func(dim, left int) {
		if dim == m-1 {
			point[dim] = left
			w := make([]float64, m)
			for i, p := range point {
				w[i] = float64(p) / float64(partitions)
			}
			out = append(out, w)
			return
		}
		for v := 0; v <= left; v++ {
			point[dim] = v
			fill(dim+1, left-v)
		}
	}
	fill(0, partitions)
	return out
}

// Energy returns count well spread directions on the unit simplex by
// minimizing their Riesz s-energy. The m corners are always part of the set
// and come first. The result only depends on (m, count, seed).
//
// With count <= 1 the equal weights vector is returned, with count <= m the
// first count corners.
func Energy(m, count int, seed uint64) [][]float64 {
	switch {
	case m == 1:
		return [][]float64{{1}}
	case count <= 1:
		return [][]float64{EqualWeights(m)}
	case count <= m:
		return Corners(m)[:count]
	}

	rng := framework.NewRand(seed)
	points := Corners(m)
	for len(points) < count {
		p := make([]float64, m)
		for i := range p {
			p[i] = -math.Log(1 - rng.Float64())
		}
		floats.Scale(1/floats.Sum(p), p)
		points = append(points, p)
	}

	s := float64(2 * m)
	lr := energyLearningRate
	forces := make([][]float64, count)
	for i := range forces {
		forces[i] = make([]float64, m)
	}
	diff := make([]float64, m)

	for iter := 0; iter < energyIterations; iter++ {
		maxNorm := 0.0
		for i := m; i < count; i++ {
			for k := range forces[i] {
				forces[i][k] = 0
			}
			for j := 0; j < count; j++ {
				if i == j {
					continue
				}
				floats.SubTo(diff, points[i], points[j])
				d := floats.Norm(diff, 2)
				if d < 1e-12 {
					continue
				}
				floats.AddScaled(forces[i], s/math.Pow(d, s+2), diff)
			}
			if n := floats.Norm(forces[i], 2); n > maxNorm {
				maxNorm = n
			}
		}
		if maxNorm == 0 {
			break
		}
		for i := m; i < count; i++ {
			floats.AddScaled(points[i], lr/maxNorm, forces[i])
			projectSimplex(points[i])
		}
		lr *= energyDecay
	}

	return points
}

// projectSimplex replaces v with its Euclidean projection onto the unit simplex.
func projectSimplex(v []float64) {
	u := make([]float64, len(v))
	copy(u, v)
	sort.Sort(sort.Reverse(sort.Float64Slice(u)))

	cumulative, theta := 0.0, 0.0
	for i, ui := range u {
		cumulative += ui
		t := (cumulative - 1) / float64(i+1)
		if ui-t > 0 {
			theta = t
		}
	}
	for i := range v {
		v[i] = math.Max(v[i]-theta, 0)
	}
}
