package benchmarks

import (
	"context"
	"math"

	"github.com/auit-project/layoutsolver/pkg/multiobjective/framework"
)

const (
	DTLZ2Name = "DTLZ2"
)

// DTLZ2 has a spherical Pareto front: sum(f_i^2) = 1.
// It scales to any number of objectives, which makes it the usual check
// for reference-direction based solvers.
type DTLZ2 struct {
	numVars       int
	numObjectives int
}

var (
	_ framework.Problem        = &DTLZ2{}
	_ framework.ReferenceFront = &DTLZ2{}
)

// NewDTLZ2 returns DTLZ2. The recommended variable count is
// numObjectives + 9.
func NewDTLZ2(numVars, numObjectives int) *DTLZ2 {
	return &DTLZ2{
		numVars:       numVars,
		numObjectives: numObjectives,
	}
}

func (p *DTLZ2) Name() string {
	return DTLZ2Name
}

func (p *DTLZ2) NumVariables() int   { return p.numVars }
func (p *DTLZ2) NumObjectives() int  { return p.numObjectives }
func (p *DTLZ2) NumConstraints() int { return 0 }

func (p *DTLZ2) LowerBounds() []float64 { return constant(p.numVars, 0) }
func (p *DTLZ2) UpperBounds() []float64 { return constant(p.numVars, 1) }

func (p *DTLZ2) Evaluate(_ context.Context, x [][]float64) (framework.Evaluation, error) {
	F := make([][]float64, len(x))
	for i, xx := range x {
		f := make([]float64, p.numObjectives)
		for j := range f {
			f[j] = p.objective(xx, j)
		}
		F[i] = f
	}
	return framework.Evaluation{F: F}, nil
}

func (p *DTLZ2) g(x []float64) float64 {
	sum := 0.0
	for i := p.numObjectives - 1; i < p.numVars; i++ {
		sum += math.Pow(x[i]-0.5, 2)
	}
	return sum
}

func (p *DTLZ2) objective(x []float64, objIdx int) float64 {
	f := 1 + p.g(x)

	// Product of cos terms
	for i := 0; i < p.numObjectives-objIdx-1; i++ {
		f *= math.Cos(x[i] * math.Pi / 2)
	}

	// Last term is sin for all objectives except the first
	if objIdx > 0 {
		f *= math.Sin(x[p.numObjectives-objIdx-1] * math.Pi / 2)
	}

	return f
}

// TrueParetoFront samples the quarter circle for two objectives and the
// positive octant of the unit sphere for three.
func (p *DTLZ2) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	if p.numObjectives == 2 {
		points := make([]framework.ObjectiveSpacePoint, numPoints)
		for i := 0; i < numPoints; i++ {
			theta := (math.Pi / 2) * float64(i) / float64(numPoints-1)
			points[i] = framework.ObjectiveSpacePoint{
				math.Cos(theta),
				math.Sin(theta),
			}
		}
		return points
	}

	sqrtN := int(math.Sqrt(float64(numPoints)))
	if sqrtN < 2 {
		sqrtN = 2
	}
	points := make([]framework.ObjectiveSpacePoint, 0, sqrtN*sqrtN)
	for i := 0; i < sqrtN; i++ {
		theta := (math.Pi / 2) * float64(i) / float64(sqrtN-1)
		for j := 0; j < sqrtN; j++ {
			phi := (math.Pi / 2) * float64(j) / float64(sqrtN-1)
			points = append(points, framework.ObjectiveSpacePoint{
				math.Cos(theta) * math.Cos(phi),
				math.Sin(theta) * math.Cos(phi),
				math.Sin(phi),
			})
		}
	}
	return points
}
