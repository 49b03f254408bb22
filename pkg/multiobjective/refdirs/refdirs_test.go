package refdirs

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestCornersAndEqualWeights(t *testing.T) {
	assert.Equal(t, [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, Corners(3))
	assert.InDeltaSlice(t, []float64{0.25, 0.25, 0.25, 0.25}, EqualWeights(4), 1e-12)
}

func TestDasDennis(t *testing.T) {
	dirs := DasDennis(3, 4)
	// C(4+3-1, 3-1) = 15 points.
	require.Len(t, dirs, 15)
	for _, d := range dirs {
		assert.InDelta(t, 1.0, floats.Sum(d), 1e-12)
	}
	assert.Equal(t, [][]float64{{1}}, DasDennis(1, 5))
}

func TestEnergyOnSimplex(t *testing.T) {
	dirs := Energy(3, 10, 1)
	require.Len(t, dirs, 10)

	if diff := cmp.Diff(Corners(3), dirs[:3]); diff != "" {
		t.Errorf("corners must lead the set (-want +got):\n%s", diff)
	}
	for i, d := range dirs {
		assert.InDelta(t, 1.0, floats.Sum(d), 1e-9, "direction %d", i)
		for _, v := range d {
			assert.GreaterOrEqual(t, v, 0.0)
		}
	}
}

func TestEnergyIsSpread(t *testing.T) {
	dirs := Energy(2, 6, 7)
	minDist := math.Inf(1)
	for i := range dirs {
		for j := i + 1; j < len(dirs); j++ {
			minDist = math.Min(minDist, floats.Distance(dirs[i], dirs[j], 2))
		}
	}
	// Six evenly spaced points on the 2D simplex are sqrt(2)/5 apart.
	assert.Greater(t, minDist, 0.5*math.Sqrt2/5)
}

func TestEnergyDeterministic(t *testing.T) {
	a := Energy(3, 12, 42)
	b := Energy(3, 12, 42)
	if diff := cmp.Diff(a, b, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("same seed must give the same directions (-a +b):\n%s", diff)
	}
}

func TestEnergySmallCounts(t *testing.T) {
	assert.Equal(t, [][]float64{{1}}, Energy(1, 10, 1))
	assert.Equal(t, [][]float64{EqualWeights(3)}, Energy(3, 1, 1))
	assert.Equal(t, Corners(3)[:2], Energy(3, 2, 1))
}

func TestProjectSimplex(t *testing.T) {
	v := []float64{0.8, 0.6, -0.2}
	projectSimplex(v)
	assert.InDelta(t, 1.0, floats.Sum(v), 1e-12)
	assert.InDeltaSlice(t, []float64{0.6, 0.4, 0}, v, 1e-12)
}
