package decomposition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	got := Normalize([][]float64{{2, 5}, {4, 5}, {3, 5}})
	want := [][]float64{{0, 0}, {1, 0}, {0.5, 0}}
	for i := range want {
		assert.InDeltaSlice(t, want[i], got[i], 1e-12)
	}
	assert.Nil(t, Normalize(nil))
}

func TestAASFCorners(t *testing.T) {
	F := [][]float64{{0, 10}, {5, 5}, {10, 0}}
	aasf := NewAASF()

	assert.Equal(t, 2, aasf.Best(F, []float64{1, 0}))
	assert.Equal(t, 0, aasf.Best(F, []float64{0, 1}))
	assert.Equal(t, 1, aasf.Best(F, []float64{0.5, 0.5}))
}

func TestAASFScaleInvariant(t *testing.T) {
	F := [][]float64{{0, 1000}, {0.4, 400}, {1, 0}}
	scaled := [][]float64{{0, 1}, {0.4, 0.4}, {1, 0}}
	aasf := NewAASF()
	w := []float64{0.5, 0.5}

	assert.InDeltaSlice(t, aasf.Do(scaled, w), aasf.Do(F, w), 1e-9)
	assert.Equal(t, 1, aasf.Best(F, w))
}

func TestAASFTieBreaksOnFirst(t *testing.T) {
	F := [][]float64{{1, 1}, {1, 1}, {1, 1}}
	assert.Equal(t, 0, NewAASF().Best(F, []float64{0.5, 0.5}))
}

func TestArgminEmpty(t *testing.T) {
	assert.Equal(t, -1, Argmin(nil))
}

func TestHighTradeoffFindsKnee(t *testing.T) {
	F := [][]float64{
		{0, 1},
		{0.25, 0.75},
		{0.2, 0.2},
		{0.5, 0.5},
		{0.75, 0.25},
		{1, 0},
	}
	h := HighTradeoff{}

	mu := h.Tradeoffs(F)
	assert.InDeltaSlice(t, []float64{0.25, 0, 4, 0, 0, 0.25}, mu, 1e-9)
	assert.Equal(t, []bool{false, false, true, false, false, false}, h.Do(F))
}

func TestHighTradeoffUndefined(t *testing.T) {
	F := [][]float64{{1, 1}, {1, 1}}
	h := HighTradeoff{Epsilon: DefaultEpsilon}

	mu := h.Tradeoffs(F)
	require.Len(t, mu, 2)
	assert.True(t, math.IsNaN(mu[0]))
	assert.Equal(t, []bool{false, false}, h.Do(F))
}

func TestHighTradeoffSelectsUnboundedTradeoff(t *testing.T) {
	// The first point dominates both of its neighbors.
	F := [][]float64{{0, 0}, {1, 1}, {1, 1}}
	h := HighTradeoff{Epsilon: DefaultEpsilon}

	mu := h.Tradeoffs(F)
	assert.True(t, math.IsInf(mu[0], 1))
	assert.Equal(t, []bool{true, false, false}, h.Do(F))
}

func TestNeighborsFallsBackToNearest(t *testing.T) {
	F := [][]float64{{0, 0}, {0.05, 0}, {0.5, 0}, {1, 0}}
	assert.Equal(t, []int{1}, neighbors(F, 0, 0.125, 0))
	assert.Equal(t, []int{1, 2, 3}, neighbors(F, 0, 0.125, 3))
}
