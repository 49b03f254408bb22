package framework

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// Solver is the capability a multi-objective algorithm provides: given a
// problem, a termination criterion and a seed it returns the final
// population. Solvers own their evolutionary operators; callers only rely on
// the returned population being index aligned.
type Solver interface {
	Name() string
	Run(ctx context.Context, problem Problem, termination Termination, seed uint64) (Population, error)
}

// Termination decides when a solver stops.
type Termination interface {
	// Done reports whether the run is over after the given number of
	// completed generations.
	Done(generation int) bool
}

// MaxGenerations terminates after a fixed number of generations. The
// evaluated initial population counts as the first generation.
type MaxGenerations int

// Done implements Termination.
func (m MaxGenerations) Done(generation int) bool {
	return generation >= int(m)
}

// GenerationStats summarizes one completed generation.
type GenerationStats struct {
	Generation  int
	Evaluations int
	FrontSize   int
	Feasible    int
	Elapsed     time.Duration
}

// Observer is notified after every generation. It has no influence on the
// search.
type Observer func(ctx context.Context, stats GenerationStats)

// NewRand returns the generator every solver draws from. Two generators
// built from the same seed produce the same stream.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SampleUniform draws n vectors uniformly within [lower, upper].
func SampleUniform(rng *rand.Rand, n int, lower, upper []float64) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		vars := make([]float64, len(lower))
		for j := range vars {
			vars[j] = lower[j] + rng.Float64()*(upper[j]-lower[j])
		}
		out[i] = vars
	}
	return out
}

// SBX performs simulated binary crossover of two parents with distribution
// index eta, clamping the children to [lower, upper]. Each variable is
// recombined with probability 0.5 once the pair is selected for crossover.
func SBX(rng *rand.Rand, p1, p2, lower, upper []float64, crossoverRate, eta float64) ([]float64, []float64) {
	child1 := make([]float64, len(p1))
	child2 := make([]float64, len(p2))
	copy(child1, p1)
	copy(child2, p2)

	if rng.Float64() >= crossoverRate {
		return child1, child2
	}

	for i := range p1 {
		if rng.Float64() > 0.5 || math.Abs(p1[i]-p2[i]) < 1e-14 {
			continue
		}
		u := rng.Float64()
		var beta float64
		if u <= 0.5 {
			beta = math.Pow(2*u, 1.0/(eta+1))
		} else {
			beta = math.Pow(1.0/(2*(1.0-u)), 1.0/(eta+1))
		}

		child1[i] = 0.5 * ((1+beta)*p1[i] + (1-beta)*p2[i])
		child2[i] = 0.5 * ((1-beta)*p1[i] + (1+beta)*p2[i])

		// Bound checking
		child1[i] = clamp(child1[i], lower[i], upper[i])
		child2[i] = clamp(child2[i], lower[i], upper[i])
	}

	return child1, child2
}

// PolynomialMutation mutates x in place. Each variable is perturbed with
// probability mutationRate using distribution index eta.
func PolynomialMutation(rng *rand.Rand, x, lower, upper []float64, mutationRate, eta float64) {
	for i := range x {
		if rng.Float64() >= mutationRate {
			continue
		}
		span := upper[i] - lower[i]
		if span <= 0 {
			continue
		}
		u := rng.Float64()
		var delta float64
		if u < 0.5 {
			delta = math.Pow(2*u, 1.0/(eta+1)) - 1
		} else {
			delta = 1 - math.Pow(2*(1-u), 1.0/(eta+1))
		}

		x[i] = clamp(x[i]+delta*span, lower[i], upper[i])
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
