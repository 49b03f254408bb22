package framework

import (
	"context"
	"math"
)

// Individual represents a solution in the population
type Individual struct {
	Variables  []float64
	Objectives []float64
	Violations []float64

	// CV is the aggregated constraint violation: the sum of the positive
	// entries of Violations. Zero means feasible.
	CV float64

	// Rank is the non-domination rank, 0 being the first front.
	Rank int
	// Distance is NSGA-II specific
	Distance float64
}

// Feasible reports whether the individual satisfies every constraint.
func (ind *Individual) Feasible() bool {
	return ind.CV <= 0
}

// Clone returns a deep copy of the individual.
func (ind Individual) Clone() Individual {
	out := ind
	out.Variables = cloneFloats(ind.Variables)
	out.Objectives = cloneFloats(ind.Objectives)
	out.Violations = cloneFloats(ind.Violations)
	return out
}

// ObjectiveSpacePoint represents an N-dimensional point in the objective space.
// As an example, for a problem with 2 objective functions f1 and f2, a point
// in the objective space could be [f1(x'), f2(x')], for the input of x'.
type ObjectiveSpacePoint []float64

// Bounds is the closed interval [L, H] a decision variable lives in.
type Bounds struct {
	L float64
	H float64
}

// Evaluation holds the fitness of a batch of decision vectors, index aligned
// with the batch. G is nil when the problem has no constraints.
type Evaluation struct {
	F [][]float64
	G [][]float64
}

// Problem describes the contract a specific multi-objective problem needs to implement.
// Evaluate is batched: every generation hands the whole batch over at once
// and the problem answers for all of it, or fails the run.
type Problem interface {
	Name() string

	NumVariables() int
	NumObjectives() int
	NumConstraints() int

	LowerBounds() []float64
	UpperBounds() []float64

	Evaluate(ctx context.Context, x [][]float64) (Evaluation, error)
}

// ReferenceFront is implemented by problems whose true Pareto front is
// known, such as the benchmarks.
type ReferenceFront interface {
	TrueParetoFront(int) []ObjectiveSpacePoint
}

// Population is the result of a run: index aligned decision vectors X,
// objective vectors F and constraint violations G (nil when unconstrained).
type Population struct {
	X [][]float64
	F [][]float64
	G [][]float64
}

// Len returns the number of members of the population.
func (p Population) Len() int {
	return len(p.X)
}

// NewPopulation collects the decision, objective and violation vectors of
// individuals into a Population.
func NewPopulation(individuals []Individual) Population {
	pop := Population{
		X: make([][]float64, len(individuals)),
		F: make([][]float64, len(individuals)),
	}
	constrained := false
	for _, ind := range individuals {
		if len(ind.Violations) > 0 {
			constrained = true
			break
		}
	}
	if constrained {
		pop.G = make([][]float64, len(individuals))
	}
	for i, ind := range individuals {
		pop.X[i] = cloneFloats(ind.Variables)
		pop.F[i] = cloneFloats(ind.Objectives)
		if constrained {
			pop.G[i] = cloneFloats(ind.Violations)
		}
	}
	return pop
}

// Individuals converts the population back into individuals with their
// constraint violation aggregated. Rank and Distance are left zero.
func (p Population) Individuals() []Individual {
	out := make([]Individual, len(p.X))
	for i := range p.X {
		out[i] = Individual{
			Variables:  cloneFloats(p.X[i]),
			Objectives: cloneFloats(p.F[i]),
		}
		if p.G != nil {
			out[i].Violations = cloneFloats(p.G[i])
			out[i].CV = ConstraintViolation(p.G[i])
		}
	}
	return out
}

// ConstraintViolation sums the positive entries of g.
func ConstraintViolation(g []float64) float64 {
	cv := 0.0
	for _, v := range g {
		if v > 0 {
			cv += v
		}
	}
	return cv
}

// Collapsed reports whether every member of the population shares the same
// objective vector, within tol.
func (p Population) Collapsed(tol float64) bool {
	if len(p.F) < 2 {
		return false
	}
	first := p.F[0]
	for _, f := range p.F[1:] {
		if len(f) != len(first) {
			return false
		}
		for j := range f {
			if math.Abs(f[j]-first[j]) > tol {
				return false
			}
		}
	}
	return true
}

// Subset returns the members at the given indices, in that order.
func (p Population) Subset(indices []int) Population {
	out := Population{
		X: make([][]float64, len(indices)),
		F: make([][]float64, len(indices)),
	}
	if p.G != nil {
		out.G = make([][]float64, len(indices))
	}
	for i, idx := range indices {
		out.X[i] = cloneFloats(p.X[idx])
		out.F[i] = cloneFloats(p.F[idx])
		if p.G != nil {
			out.G[i] = cloneFloats(p.G[idx])
		}
	}
	return out
}

func cloneFloats(v []float64) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
