package framework

import (
	"context"
	"fmt"
)

// EvaluateBatch evaluates xs in a single call to the problem and builds the
// corresponding individuals. A result that does not match the batch is an
// error; solvers need complete fitness information for every member.
func EvaluateBatch(ctx context.Context, problem Problem, xs [][]float64) ([]Individual, error) {
	eval, err := problem.Evaluate(ctx, xs)
	if err != nil {
		return nil, err
	}
	if len(eval.F) != len(xs) {
		return nil, fmt.Errorf("problem %s returned %d objective vectors for %d candidates", problem.Name(), len(eval.F), len(xs))
	}
	constrained := problem.NumConstraints() > 0
	if constrained && len(eval.G) != len(xs) {
		return nil, fmt.Errorf("problem %s returned %d violation vectors for %d candidates", problem.Name(), len(eval.G), len(xs))
	}

	individuals := make([]Individual, len(xs))
	for i, x := range xs {
		if len(eval.F[i]) != problem.NumObjectives() {
			return nil, fmt.Errorf("problem %s returned %d objectives for candidate %d, want %d", problem.Name(), len(eval.F[i]), i, problem.NumObjectives())
		}
		individuals[i] = Individual{
			Variables:  cloneFloats(x),
			Objectives: cloneFloats(eval.F[i]),
		}
		if constrained {
			individuals[i].Violations = cloneFloats(eval.G[i])
			individuals[i].CV = ConstraintViolation(eval.G[i])
		}
	}
	return individuals, nil
}

// CountFeasible returns the number of feasible individuals.
func CountFeasible(individuals []Individual) int {
	n := 0
	for i := range individuals {
		if individuals[i].Feasible() {
			n++
		}
	}
	return n
}
