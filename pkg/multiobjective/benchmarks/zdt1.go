package benchmarks

import (
	"context"
	"math"

	"github.com/auit-project/layoutsolver/pkg/multiobjective/framework"
)

const (
	ZDT1Name = "ZDT1"
)

// ZDT1 is a benchmark function used to test the correctness
// of multi-objective algorithms. For more details, check the article below:
// https://datacrayon.com/practical-evolutionary-algorithms/synthetic-objective-functions-and-zdt1/
type ZDT1 struct {
	numVars int
}

var (
	_ framework.Problem        = &ZDT1{}
	_ framework.ReferenceFront = &ZDT1{}
)

func NewZDT1(numVars int) *ZDT1 {
	return &ZDT1{
		numVars,
	}
}

func (p *ZDT1) Name() string {
	return ZDT1Name
}

func (p *ZDT1) NumVariables() int   { return p.numVars }
func (p *ZDT1) NumObjectives() int  { return 2 }
func (p *ZDT1) NumConstraints() int { return 0 }

func (p *ZDT1) LowerBounds() []float64 { return constant(p.numVars, 0) }
func (p *ZDT1) UpperBounds() []float64 { return constant(p.numVars, 1) }

// Evaluate computes both ZDT1 objectives for every vector of the batch.
func (p *ZDT1) Evaluate(_ context.Context, x [][]float64) (framework.Evaluation, error) {
	F := make([][]float64, len(x))
	for i, xx := range x {
		F[i] = []float64{p.f1(xx), p.f2(xx)}
	}
	return framework.Evaluation{F: F}, nil
}

// f1 is the first ZDT1 benchmark objective
func (p *ZDT1) f1(xx []float64) float64 {
	return xx[0]
}

// f2 is the second ZDT1 benchmark objective
func (p *ZDT1) f2(xx []float64) float64 {
	g := 1.0
	for i := 1; i < len(xx); i++ {
		g += 9.0 * xx[i] / float64(len(xx)-1)
	}
	return g * (1.0 - math.Sqrt(xx[0]/g))
}

// TrueParetoFront generates numPoints points on the true Pareto front for ZDT1
func (p *ZDT1) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	points := make([]framework.ObjectiveSpacePoint, numPoints)
	for i := 0; i < numPoints; i++ {
		x := float64(i) / float64(numPoints-1)
		points[i] = framework.ObjectiveSpacePoint{
			x, 1.0 - math.Sqrt(x),
		}
	}
	return points
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
