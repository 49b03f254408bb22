package algorithms

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"

	"github.com/auit-project/layoutsolver/pkg/multiobjective/framework"
)

const (
	NSGAIIIName = "nsga3"
)

// NSGAIII is the reference-direction based variant of NSGA-II. The last
// admitted front is filled by niching around RefDirs in normalized
// objective space instead of by crowding distance.
type NSGAIII struct {
	PopSize       int
	RefDirs       [][]float64
	CrossoverRate float64
	CrossoverEta  float64
	// MutationRate is the per-variable mutation probability. Zero means
	// one over the number of variables.
	MutationRate float64
	MutationEta  float64

	Observer framework.Observer
}

var _ framework.Solver = &NSGAIII{}

// NewNSGAIII returns NSGA-III with the usual operator settings.
func NewNSGAIII(popSize int, refDirs [][]float64) *NSGAIII {
	return &NSGAIII{
		PopSize:       popSize,
		RefDirs:       refDirs,
		CrossoverRate: 1,
		CrossoverEta:  30,
		MutationEta:   20,
	}
}

func (n *NSGAIII) Name() string {
	return NSGAIIIName
}

// normalizer tracks the ideal point and the extreme points across
// generations.
type normalizer struct {
	ideal    []float64
	extremes [][]float64
}

func (n *NSGAIII) Run(ctx context.Context, problem framework.Problem, termination framework.Termination, seed uint64) (framework.Population, error) {
	logger := klog.FromContext(ctx)
	logger.V(5).Info("Starting solver", "algorithm", n.Name(), "problem", problem.Name(), "populationSize", n.PopSize, "referenceDirections", len(n.RefDirs), "seed", seed)

	rng := framework.NewRand(seed)
	lower, upper := problem.LowerBounds(), problem.UpperBounds()
	mutationRate := n.MutationRate
	if mutationRate == 0 {
		mutationRate = 1 / float64(problem.NumVariables())
	}
	norm := &normalizer{}

	start := time.Now()
	population, err := framework.EvaluateBatch(ctx, problem, framework.SampleUniform(rng, n.PopSize, lower, upper))
	if err != nil {
		return framework.Population{}, err
	}
	evaluations := len(population)
	norm.updateIdeal(population)
	fronts := framework.NonDominatedSort(population)
	report(ctx, n.Observer, 1, evaluations, population, fronts, start)

	for gen := 1; !termination.Done(gen); {
		if err := ctx.Err(); err != nil {
			return framework.Population{}, err
		}
		offspringVars := make([][]float64, 0, n.PopSize)
		for len(offspringVars) < n.PopSize {
			parent1 := population[tournamentByViolation(rng, population)]
			parent2 := population[tournamentByViolation(rng, population)]

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
		norm.updateIdeal(offspring)

		combined := append(population, offspring...)
		population = n.survive(rng, norm, combined)
		fronts = framework.NonDominatedSort(population)

		gen++
		report(ctx, n.Observer, gen, evaluations, population, fronts, start)
	}

	return framework.NewPopulation(population), nil
}

// tournamentByViolation prefers the smaller constraint violation and picks
// at random between feasible contestants.
func tournamentByViolation(rng *rand.Rand, population []framework.Individual) int {
	a := rng.IntN(len(population))
	b := rng.IntN(len(population))
	switch {
	case population[a].CV < population[b].CV:
		return a
	case population[b].CV < population[a].CV:
		return b
	case rng.Float64() < 0.5:
		return a
	}
	return b
}

func (n *NSGAIII) survive(rng *rand.Rand, norm *normalizer, combined []framework.Individual) []framework.Individual {
	fronts := framework.NonDominatedSort(combined)

	var admitted []int
	lastFront := 0
	for l, front := range fronts {
		admitted = append(admitted, front...)
		lastFront = l
		if len(admitted) >= n.PopSize {
			break
		}
	}

	next := make([]framework.Individual, 0, n.PopSize)
	if len(admitted) == n.PopSize {
		for _, i := range admitted {
			next = append(next, combined[i])
		}
		return next
	}

	F := make([][]float64, len(admitted))
	for k, i := range admitted {
		F[k] = combined[i].Objectives
	}
	firstFront := len(fronts[0])
	if firstFront > len(F) {
		firstFront = len(F)
	}
	normalized := norm.normalize(F, firstFront)
	niche, dist := associate(normalized, n.RefDirs)

	// Members before the last front are admitted unconditionally.
	before := len(admitted) - len(fronts[lastFront])
	counts := make([]int, len(n.RefDirs))
	for k := 0; k < before; k++ {
		counts[niche[k]]++
		next = append(next, combined[admitted[k]])
	}

	chosen := niching(rng, n.PopSize-before, counts, niche[before:], dist[before:])
	for _, k := range chosen {
		next = append(next, combined[admitted[before+k]])
	}
	return next
}

func (norm *normalizer) updateIdeal(individuals []framework.Individual) {
	for _, ind := range individuals {
		if norm.ideal == nil {
			norm.ideal = make([]float64, len(ind.Objectives))
			copy(norm.ideal, ind.Objectives)
			continue
		}
		for j, v := range ind.Objectives {
			norm.ideal[j] = math.Min(norm.ideal[j], v)
		}
	}
}

// normalize maps F onto the hyperplane spanned by the extreme points. The
// first nFront rows of F are the first non-dominated front.
func (norm *normalizer) normalize(F [][]float64, nFront int) [][]float64 {
	m := len(F[0])
	norm.updateExtremes(F[:nFront])

	nadir := norm.intercepts()
	if nadir == nil {
		nadir = columnMax(F[:nFront])
	}
	span := make([]float64, m)
	floats.SubTo(span, nadir, norm.ideal)
	worst := columnMax(F)
	for j := range span {
		if span[j] <= 1e-6 {
			span[j] = worst[j] - norm.ideal[j]
		}
		if span[j] <= 1e-12 {
			span[j] = 1e-12
		}
	}

	out := make([][]float64, len(F))
	for i, f := range F {
		row := make([]float64, m)
		floats.SubTo(row, f, norm.ideal)
		floats.Div(row, span)
		out[i] = row
	}
	return out
}

// updateExtremes picks, for every axis, the point minimizing the achievement
// scalarization towards that axis among front and the previous extremes.
func (norm *normalizer) updateExtremes(front [][]float64) {
	m := len(norm.ideal)
	candidates := append([][]float64{}, norm.extremes...)
	candidates = append(candidates, front...)

	extremes := make([][]float64, m)
	shifted := make([]float64, m)
	for axis := 0; axis < m; axis++ {
		bestScore := math.Inf(1)
		for _, c := range candidates {
			floats.SubTo(shifted, c, norm.ideal)
			score := 0.0
			for j, v := range shifted {
				w := 1e6
				if j == axis {
					w = 1
				}
				if v < 1e-3 {
					v = 0
				}
				score = math.Max(score, v*w)
			}
			if score < bestScore {
				bestScore = score
				extremes[axis] = c
			}
		}
	}
	norm.extremes = extremes
}

// intercepts solves for the hyperplane through the extreme points and
// returns the nadir estimate it implies, or nil when the hyperplane is
// degenerate.
func (norm *normalizer) intercepts() []float64 {
	m := len(norm.ideal)
	data := make([]float64, 0, m*m)
	for _, e := range norm.extremes {
		for j := range e {
			data = append(data, e[j]-norm.ideal[j])
		}
	}
	ones := make([]float64, m)
	for j := range ones {
		ones[j] = 1
	}

	var plane mat.VecDense
	if err := plane.SolveVec(mat.NewDense(m, m, data), mat.NewVecDense(m, ones)); err != nil {
		return nil
	}
	nadir := make([]float64, m)
	for j := range nadir {
		b := plane.AtVec(j)
		if b <= 0 || math.IsNaN(b) || math.IsInf(b, 0) {
			return nil
		}
		intercept := 1 / b
		if intercept <= 1e-6 {
			return nil
		}
		nadir[j] = norm.ideal[j] + intercept
	}
	return nadir
}

// associate returns, for every row of normalized, the closest reference
// direction by perpendicular distance and that distance.
func associate(normalized, refDirs [][]float64) ([]int, []float64) {
	niche := make([]int, len(normalized))
	dist := make([]float64, len(normalized))
	proj := make([]float64, len(refDirs[0]))
	for i, f := range normalized {
		dist[i] = math.Inf(1)
		for r, dir := range refDirs {
			scale := floats.Dot(f, dir) / floats.Dot(dir, dir)
			floats.ScaleTo(proj, scale, dir)
			d := floats.Distance(f, proj, 2)
			if d < dist[i] {
				dist[i] = d
				niche[i] = r
			}
		}
	}
	return niche, dist
}

// niching picks want members of the last front. counts holds the niche
// counts of the members admitted so far and is updated in place.
func niching(rng *rand.Rand, want int, counts []int, niche []int, dist []float64) []int {
	available := make([]bool, len(niche))
	for i := range available {
		available[i] = true
	}
	members := make([][]int, len(counts))
	for i, r := range niche {
		members[r] = append(members[r], i)
	}

	var chosen []int
	active := make([]bool, len(counts))
	for r := range counts {
		active[r] = len(members[r]) > 0
	}

	for len(chosen) < want {
		minCount := math.MaxInt
		var ties []int
		for r, ok := range active {
			if !ok {
				continue
			}
			switch {
			case counts[r] < minCount:
				minCount = counts[r]
				ties = []int{r}
			case counts[r] == minCount:
				ties = append(ties, r)
			}
		}
		if len(ties) == 0 {
			break
		}
		r := ties[rng.IntN(len(ties))]

		var candidates []int
		for _, i := range members[r] {
			if available[i] {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			active[r] = false
			continue
		}

		pick := candidates[0]
		if counts[r] == 0 {
			for _, i := range candidates[1:] {
				if dist[i] < dist[pick] {
					pick = i
				}
			}
		} else {
			pick = candidates[rng.IntN(len(candidates))]
		}

		available[pick] = false
		chosen = append(chosen, pick)
		counts[r]++
	}
	return chosen
}

func columnMax(F [][]float64) []float64 {
	out := make([]float64, len(F[0]))
	copy(out, F[0])
	for _, f := range F[1:] {
		for j, v := range f {
			out[j] = math.Max(out[j], v)
		}
	}
	return out
}
