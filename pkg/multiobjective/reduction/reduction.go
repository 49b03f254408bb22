// Package reduction picks the layouts proposed to the user out of a final
// population, together with a single suggested default.
package reduction

import (
	"errors"
	"fmt"

	"github.com/auit-project/layoutsolver/apis/config"
	"github.com/auit-project/layoutsolver/pkg/multiobjective/decomposition"
	"github.com/auit-project/layoutsolver/pkg/multiobjective/framework"
	"github.com/auit-project/layoutsolver/pkg/multiobjective/refdirs"
)

// ErrEmptyPopulation is returned when there is nothing to reduce.
var ErrEmptyPopulation = errors.New("cannot reduce an empty population")

// Options tune the reduction modes.
type Options struct {
	// ProposalCount is the number of energy-spread weight vectors the
	// scalarization mode adds to the objective corners. Zero adds the
	// equal-weights vector instead.
	ProposalCount int
	// Seed for the energy-spread weight vectors.
	Seed uint64

	AASF         decomposition.AASF
	HighTradeoff decomposition.HighTradeoff
}

// DefaultOptions returns the options used when the caller has no preference.
func DefaultOptions() Options {
	return Options{
		ProposalCount: config.DefaultProposalCount,
		AASF:          decomposition.NewAASF(),
		HighTradeoff:  decomposition.HighTradeoff{Epsilon: decomposition.DefaultEpsilon},
	}
}

// Result holds indices into the reduced population.
type Result struct {
	// Selected lists the proposed members in ascending order.
	Selected []int
	// Suggested is the equal-weights compromise. It does not depend on the
	// reduction mode.
	Suggested int
}

// Reduce selects the proposed members of pop according to mode.
//
// The high-tradeoff and scalarization modes and the suggestion only consider
// the non-dominated members of the feasible subset, or of the whole
// population when no member is feasible.
func Reduce(pop framework.Population, mode config.ReductionMode, opts Options) (Result, error) {
	if pop.Len() == 0 || len(pop.F) != pop.Len() {
		return Result{}, ErrEmptyPopulation
	}
	if pop.Len() == 1 {
		return Result{Selected: []int{0}, Suggested: 0}, nil
	}

	candidates := nonDominated(pop, feasibleIndices(pop))
	F := pop.Subset(candidates).F
	m := len(F[0])

	suggested := candidates[opts.AASF.Best(F, refdirs.EqualWeights(m))]

	var mask []bool
	switch mode {
	case config.ReductionModeAll:
		all := make([]int, pop.Len())
		for i := range all {
			all[i] = i
		}
		return Result{Selected: all, Suggested: suggested}, nil
	case config.ReductionModeHighTradeoff:
		mask = opts.HighTradeoff.Do(F)
	case config.ReductionModeScalarization, "":
		mask = make([]bool, len(F))
		for _, w := range Weights(m, opts.ProposalCount, opts.Seed) {
			mask[opts.AASF.Best(F, w)] = true
		}
	default:
		return Result{}, fmt.Errorf("unknown reduction mode %q", mode)
	}

	var selected []int
	for i, ok := range mask {
		if ok {
			selected = append(selected, candidates[i])
		}
	}
	if len(selected) == 0 {
		selected = []int{suggested}
	}
	return Result{Selected: selected, Suggested: suggested}, nil
}

// Weights returns the weight vectors of the scalarization mode: the m
// objective corners followed by count energy-spread vectors, or by the
// equal-weights vector when count is zero.
func Weights(m, count int, seed uint64) [][]float64 {
	weights := refdirs.Corners(m)
	if count > 0 {
		return append(weights, refdirs.Energy(m, count, seed)...)
	}
	return append(weights, refdirs.EqualWeights(m))
}

// nonDominated returns the members of indices no other member of indices
// dominates.
func nonDominated(pop framework.Population, indices []int) []int {
	front := framework.ParetoFront(pop.Subset(indices).F)
	out := make([]int, len(front))
	for k, i := range front {
		out[k] = indices[i]
	}
	return out
}

func feasibleIndices(pop framework.Population) []int {
	var feasible []int
	if pop.G != nil {
		for i, g := range pop.G {
			if framework.ConstraintViolation(g) <= 0 {
				feasible = append(feasible, i)
			}
		}
	}
	if len(feasible) > 0 {
		return feasible
	}
	all := make([]int, pop.Len())
	for i := range all {
		all[i] = i
	}
	return all
}
