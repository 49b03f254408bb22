package algorithms

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/auit-project/layoutsolver/pkg/multiobjective/benchmarks"
	"github.com/auit-project/layoutsolver/pkg/multiobjective/framework"
	"github.com/auit-project/layoutsolver/pkg/multiobjective/refdirs"
)

func TestNSGAIIIWithDTLZ2(t *testing.T) {
	dtlz2 := benchmarks.NewDTLZ2(12, 3)
	refDirs := refdirs.DasDennis(3, 12)
	nsga := NewNSGAIII(len(refDirs), refDirs)

	finalPop, err := nsga.Run(context.Background(), dtlz2, framework.MaxGenerations(200), 1)
	require.NoError(t, err)
	require.Equal(t, len(refDirs), finalPop.Len())

	// Every member should sit close to the unit sphere.
	deviation := 0.0
	for _, f := range finalPop.F {
		deviation += math.Abs(floats.Norm(f, 2) - 1)
	}
	assert.Less(t, deviation/float64(finalPop.Len()), 0.1)

	// And the niches should be spread over the whole front.
	niche, _ := associate(finalPop.F, refDirs)
	occupied := map[int]bool{}
	for _, r := range niche {
		occupied[r] = true
	}
	assert.Greater(t, len(occupied), len(refDirs)/2)
}

func TestNSGAIIIWithZDT1EnergyDirections(t *testing.T) {
	zdt1 := benchmarks.NewZDT1(10)
	nsga := NewNSGAIII(40, refdirs.Energy(2, 40, 1))

	finalPop, err := nsga.Run(context.Background(), zdt1, framework.MaxGenerations(150), 2)
	require.NoError(t, err)

	front := framework.ParetoFront(finalPop.F)
	results := make([]framework.ObjectiveSpacePoint, len(front))
	for i, idx := range front {
		results[i] = finalPop.F[idx]
	}
	assert.Less(t, generationalDistance(results, zdt1.TrueParetoFront(1000)), 0.1)
}

func TestNSGAIIIDeterministic(t *testing.T) {
	dtlz2 := benchmarks.NewDTLZ2(6, 3)
	refDirs := refdirs.Energy(3, 15, 4)
	run := func() framework.Population {
		pop, err := NewNSGAIII(15, refDirs).Run(context.Background(), dtlz2, framework.MaxGenerations(8), 11)
		require.NoError(t, err)
		return pop
	}

	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("same seed gave different populations (-first +second):\n%s", diff)
	}
}

func TestNSGAIIISingleObjective(t *testing.T) {
	problem := &sphere{}
	nsga := NewNSGAIII(10, refdirs.Energy(1, 10, 1))

	pop, err := nsga.Run(context.Background(), problem, framework.MaxGenerations(30), 1)
	require.NoError(t, err)
	require.Equal(t, 10, pop.Len())
	best := math.Inf(1)
	for _, f := range pop.F {
		require.Len(t, f, 1)
		best = math.Min(best, f[0])
	}
	assert.Less(t, best, 0.5)
}

func TestNichingPrefersEmptyNiches(t *testing.T) {
	rng := framework.NewRand(1)
	counts := []int{2, 0, 1}
	niche := []int{0, 1, 1, 2}
	dist := []float64{0.1, 0.4, 0.2, 0.3}

	chosen := niching(rng, 1, counts, niche, dist)
	// Niche 1 is empty; its closest member is candidate 2.
	assert.Equal(t, []int{2}, chosen)
	assert.Equal(t, []int{2, 1, 1}, counts)
}

func TestInterceptsOfSimplex(t *testing.T) {
	norm := &normalizer{
		ideal:    []float64{0, 0},
		extremes: [][]float64{{2, 0}, {0, 4}},
	}
	assert.InDeltaSlice(t, []float64{2, 4}, norm.intercepts(), 1e-9)

	norm.extremes = [][]float64{{1, 1}, {1, 1}}
	assert.Nil(t, norm.intercepts())
}

// sphere minimizes the squared norm of two variables in [-2, 2].
type sphere struct{}

func (sphere) Name() string           { return "sphere" }
func (sphere) NumVariables() int      { return 2 }
func (sphere) NumObjectives() int     { return 1 }
func (sphere) NumConstraints() int    { return 0 }
func (sphere) LowerBounds() []float64 { return []float64{-2, -2} }
func (sphere) UpperBounds() []float64 { return []float64{2, 2} }

func (sphere) Evaluate(_ context.Context, x [][]float64) (framework.Evaluation, error) {
	F := make([][]float64, len(x))
	for i, xx := range x {
		F[i] = []float64{floats.Dot(xx, xx)}
	}
	return framework.Evaluation{F: F}, nil
}
