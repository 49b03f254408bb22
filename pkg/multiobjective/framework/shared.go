package framework

import "slices"

// NonDominatedSort performs non-dominated sorting on the population.
// It assigns Rank on the individuals in place and returns the fronts as
// indices into population, each front in ascending index order.
func NonDominatedSort(population []Individual) [][]int {
	var fronts [][]int
	dominated := make([][]int, len(population))
	domCount := make([]int, len(population))

	// Calculate domination for each individual
	for i := 0; i < len(population); i++ {
		for j := i + 1; j < len(population); j++ {
			if Dominates(population[i], population[j]) {
				dominated[i] = append(dominated[i], j)
				domCount[j]++
			} else if Dominates(population[j], population[i]) {
				dominated[j] = append(dominated[j], i)
				domCount[i]++
			}
		}
	}

	// Find first front
	currentFront := []int{}
	for i := 0; i < len(population); i++ {
		if domCount[i] == 0 {
			population[i].Rank = 0
			currentFront = append(currentFront, i)
		}
	}
	if len(currentFront) == 0 {
		return nil
	}
	fronts = append(fronts, currentFront)

	// Find subsequent fronts
	frontIndex := 0
	for len(currentFront) > 0 {
		nextFront := []int{}
		for _, idx := range currentFront {
			for _, dominatedIdx := range dominated[idx] {
				domCount[dominatedIdx]--
				if domCount[dominatedIdx] == 0 {
					population[dominatedIdx].Rank = frontIndex + 1
					nextFront = append(nextFront, dominatedIdx)
				}
			}
		}
		frontIndex++
		if len(nextFront) > 0 {
			slices.Sort(nextFront)
			fronts = append(fronts, nextFront)
		}
		currentFront = nextFront
	}

	return fronts
}

// Dominates checks if individual a dominates individual b, using
// constraint-domination: a feasible individual dominates an infeasible one,
// of two infeasible individuals the one with the smaller violation wins, and
// two feasible individuals are compared by Pareto dominance.
func Dominates(a, b Individual) bool {
	aFeasible, bFeasible := a.Feasible(), b.Feasible()
	switch {
	case aFeasible && !bFeasible:
		return true
	case !aFeasible && bFeasible:
		return false
	case !aFeasible && !bFeasible:
		return a.CV < b.CV
	}
	return ParetoDominates(a.Objectives, b.Objectives)
}

// ParetoDominates checks if objective vector a dominates b (minimization).
func ParetoDominates(a, b []float64) bool {
	better := false
	for i := 0; i < len(a); i++ {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			better = true
		}
	}
	return better
}

// ParetoFront returns the indices of the non-dominated members of F.
func ParetoFront(F [][]float64) []int {
	var front []int
	for i := range F {
		dominated := false
		for j := range F {
			if i != j && ParetoDominates(F[j], F[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			front = append(front, i)
		}
	}
	return front
}
