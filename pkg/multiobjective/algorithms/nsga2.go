package algorithms

import (
	"context"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"k8s.io/klog/v2"

	"github.com/auit-project/layoutsolver/pkg/multiobjective/framework"
)

const (
	NSGAIIName = "nsga2"
)

// NSGAII represents the NSGA-II algorithm configuration
type NSGAII struct {
	PopSize       int
	CrossoverRate float64
	CrossoverEta  float64
	// MutationRate is the per-variable mutation probability. Zero means
	// one over the number of variables.
	MutationRate float64
	MutationEta  float64

	Observer framework.Observer
}

var _ framework.Solver = &NSGAII{}

// NewNSGAII creates a new instance of NSGA-II with given population size
func NewNSGAII(popSize int) *NSGAII {
	return &NSGAII{
		PopSize:       popSize,
		CrossoverRate: 0.8,
		CrossoverEta:  15,
		MutationEta:   20,
	}
}

func (n *NSGAII) Name() string {
	return NSGAIIName
}

// CrowdingDistance calculates crowding distance for the individuals of a front
func CrowdingDistance(population []framework.Individual, front []int) {
	if len(front) <= 2 {
		for _, i := range front {
			population[i].Distance = math.Inf(1)
		}
		return
	}

	numObjectives := len(population[front[0]].Objectives)
	for _, i := range front {
		population[i].Distance = 0
	}

	sorted := slices.Clone(front)
	for m := 0; m < numObjectives; m++ {
		// Sort by each objective
		slices.SortStableFunc(sorted, func(a, b int) int {
			return cmpFloat(population[a].Objectives[m], population[b].Objectives[m])
		})

		// Set boundary points to infinity
		first, last := sorted[0], sorted[len(sorted)-1]
		population[first].Distance = math.Inf(1)
		population[last].Distance = math.Inf(1)

		objectiveRange := population[last].Objectives[m] - population[first].Objectives[m]
		if objectiveRange == 0 {
			continue
		}

		// Calculate distance for intermediate points
		for k := 1; k < len(sorted)-1; k++ {
			population[sorted[k]].Distance += (population[sorted[k+1]].Objectives[m] - population[sorted[k-1]].Objectives[m]) / objectiveRange
		}
	}
}

// TournamentSelect runs a binary tournament on rank, then crowding distance
func (n *NSGAII) TournamentSelect(rng *rand.Rand, population []framework.Individual) int {
	best := rng.IntN(len(population))
	contestant := rng.IntN(len(population))
	b, c := population[best], population[contestant]
	if c.Rank < b.Rank || (c.Rank == b.Rank && c.Distance > b.Distance) {
		return contestant
	}
	return best
}

// Run executes the NSGA-II algorithm
func (n *NSGAII) Run(ctx context.Context, problem framework.Problem, termination framework.Termination, seed uint64) (framework.Population, error) {
	logger := klog.FromContext(ctx)
	logger.V(5).Info("Starting solver", "algorithm", n.Name(), "problem", problem.Name(), "populationSize", n.PopSize, "seed", seed)

	rng := framework.NewRand(seed)
	lower, upper := problem.LowerBounds(), problem.UpperBounds()
	mutationRate := n.MutationRate
	if mutationRate == 0 {
		mutationRate = 1 / float64(problem.NumVariables())
	}

	start := time.Now()
	population, err := framework.EvaluateBatch(ctx, problem, framework.SampleUniform(rng, n.PopSize, lower, upper))
	if err != nil {
		return framework.Population{}, err
	}
	evaluations := len(population)
	fronts := n.rankAndCrowd(population)
	report(ctx, n.Observer, 1, evaluations, population, fronts, start)

	for gen := 1; !termination.Done(gen); {
		if err := ctx.Err(); err != nil {
			return framework.Population{}, err
		}
		// Generate offspring
		offspringVars := make([][]float64, 0, n.PopSize)
		for len(offspringVars) < n.PopSize {
			parent1 := population[n.TournamentSelect(rng, population)]
			parent2 := population[n.TournamentSelect(rng, population)]

			child1, child2 := framework.SBX(rng, parent1.Variables, parent2.Variables, lower, upper, n.CrossoverRate, n.CrossoverEta)
			framework.PolynomialMutation(rng, child1, lower, upper, mutationRate, n.MutationEta)
			framework.PolynomialMutation(rng, child2, lower, upper, mutationRate, n.MutationEta)

			offspringVars = append(offspringVars, child1)
			if len(offspringVars) < n.PopSize {
				offspringVars = append(offspringVars, child2)
			}
		}

		offspring, err := framework.EvaluateBatch(ctx, problem, offspringVars)
		if err != nil {
			return framework.Population{}, err
		}
		evaluations += len(offspring)

		// Combine populations
		combined := append(population, offspring...)
		population = n.survive(combined)
		fronts = n.rankAndCrowd(population)

		gen++
		report(ctx, n.Observer, gen, evaluations, population, fronts, start)
	}

	return framework.NewPopulation(population), nil
}

func (n *NSGAII) rankAndCrowd(population []framework.Individual) [][]int {
	fronts := framework.NonDominatedSort(population)
	for _, front := range fronts {
		CrowdingDistance(population, front)
	}
	return fronts
}

// survive keeps the best PopSize individuals of combined.
func (n *NSGAII) survive(combined []framework.Individual) []framework.Individual {
	fronts := n.rankAndCrowd(combined)

	// Clear population for next generation
	next := make([]framework.Individual, 0, n.PopSize)
	for _, front := range fronts {
		if len(next)+len(front) <= n.PopSize {
			for _, i := range front {
				next = append(next, combined[i])
			}
			continue
		}

		// Add remaining individuals based on crowding distance
		last := slices.Clone(front)
		slices.SortStableFunc(last, func(a, b int) int {
			return cmpFloat(combined[b].Distance, combined[a].Distance)
		})
		for _, i := range last[:n.PopSize-len(next)] {
			next = append(next, combined[i])
		}
		break
	}
	return next
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func report(ctx context.Context, observer framework.Observer, gen, evaluations int, population []framework.Individual, fronts [][]int, start time.Time) {
	if observer == nil {
		return
	}
	frontSize := 0
	if len(fronts) > 0 {
		frontSize = len(fronts[0])
	}
	observer(ctx, framework.GenerationStats{
		Generation:  gen,
		Evaluations: evaluations,
		FrontSize:   frontSize,
		Feasible:    framework.CountFeasible(population),
		Elapsed:     time.Since(start),
	})
}
