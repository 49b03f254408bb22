package reduction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auit-project/layoutsolver/apis/config"
	"github.com/auit-project/layoutsolver/pkg/multiobjective/framework"
)

func front() framework.Population {
	F := [][]float64{
		{0, 1},
		{0.25, 0.75},
		{0.2, 0.2},
		{0.5, 0.5},
		{0.75, 0.25},
		{1, 0},
	}
	X := make([][]float64, len(F))
	for i := range X {
		X[i] = []float64{float64(i)}
	}
	return framework.Population{X: X, F: F}
}

func TestReduceSingleMember(t *testing.T) {
	pop := framework.Population{X: [][]float64{{1}}, F: [][]float64{{3, 4}}}
	for _, mode := range []config.ReductionMode{config.ReductionModeAll, config.ReductionModeHighTradeoff, config.ReductionModeScalarization} {
		res, err := Reduce(pop, mode, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, Result{Selected: []int{0}, Suggested: 0}, res, "mode %s", mode)
	}
}

func TestReduceEmpty(t *testing.T) {
	_, err := Reduce(framework.Population{}, config.ReductionModeAll, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyPopulation)
}

func TestReduceUnknownMode(t *testing.T) {
	_, err := Reduce(front(), "knee", DefaultOptions())
	assert.Error(t, err)
}

func TestReduceAll(t *testing.T) {
	res, err := Reduce(front(), config.ReductionModeAll, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, res.Selected)
	assert.Equal(t, 2, res.Suggested)
}

func TestReduceHighTradeoff(t *testing.T) {
	res, err := Reduce(front(), config.ReductionModeHighTradeoff, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []int{2}, res.Selected)
}

func TestReduceIgnoresDominatedMembers(t *testing.T) {
	pop := front()
	// Dominated points crowding the knee.
	for _, f := range [][]float64{{0.22, 0.21}, {0.21, 0.23}, {0.24, 0.22}, {0.23, 0.24}} {
		pop.X = append(pop.X, []float64{float64(pop.Len())})
		pop.F = append(pop.F, f)
	}
	nonDominated := framework.ParetoFront(pop.F)

	for _, mode := range []config.ReductionMode{config.ReductionModeHighTradeoff, config.ReductionModeScalarization} {
		res, err := Reduce(pop, mode, DefaultOptions())
		require.NoError(t, err)
		assert.Contains(t, res.Selected, 2, "mode %s must propose the knee", mode)
		assert.Subset(t, nonDominated, res.Selected, "mode %s", mode)
		assert.Equal(t, 2, res.Suggested)
	}

	res, err := Reduce(pop, config.ReductionModeHighTradeoff, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []int{2}, res.Selected)
}

func TestReduceScalarizationCorners(t *testing.T) {
	opts := DefaultOptions()
	opts.ProposalCount = 0

	res, err := Reduce(front(), config.ReductionModeScalarization, opts)
	require.NoError(t, err)
	// Corners pick the extremes, equal weights the knee.
	assert.Equal(t, []int{0, 2, 5}, res.Selected)
}

func TestReduceScalarizationWithEnergyDirections(t *testing.T) {
	res, err := Reduce(front(), config.ReductionModeScalarization, DefaultOptions())
	require.NoError(t, err)
	assert.Subset(t, res.Selected, []int{0, 5})
	assert.IsIncreasing(t, res.Selected)
}

func TestSuggestedIndependentOfMode(t *testing.T) {
	pop := front()
	var suggested []int
	for _, mode := range []config.ReductionMode{config.ReductionModeAll, config.ReductionModeHighTradeoff, config.ReductionModeScalarization} {
		res, err := Reduce(pop, mode, DefaultOptions())
		require.NoError(t, err)
		suggested = append(suggested, res.Suggested)
	}
	assert.Equal(t, []int{2, 2, 2}, suggested)
}

func TestReducePrefersFeasibleMembers(t *testing.T) {
	pop := front()
	pop.G = make([][]float64, pop.Len())
	for i := range pop.G {
		pop.G[i] = []float64{-1}
	}
	pop.G[2] = []float64{0.5}

	res, err := Reduce(pop, config.ReductionModeScalarization, Options{AASF: DefaultOptions().AASF})
	require.NoError(t, err)
	assert.NotContains(t, res.Selected, 2)
	assert.NotEqual(t, 2, res.Suggested)
}

func TestHighTradeoffFallsBackToSuggested(t *testing.T) {
	pop := framework.Population{
		X: [][]float64{{0}, {1}, {2}},
		F: [][]float64{{0, 1}, {0.5, 0.5}, {1, 0}},
	}
	res, err := Reduce(pop, config.ReductionModeHighTradeoff, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []int{res.Suggested}, res.Selected)
}

func TestWeights(t *testing.T) {
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}, {0.5, 0.5}}, Weights(2, 0, 1))
	assert.Len(t, Weights(3, 10, 1), 13)
}
