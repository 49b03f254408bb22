package multiobjective

import (
	"context"
	"fmt"

	"github.com/auit-project/layoutsolver/apis/layout/v1alpha1"
	"github.com/auit-project/layoutsolver/pkg/layout/codec"
	"github.com/auit-project/layoutsolver/pkg/multiobjective/framework"
)

const (
	ProblemName = "LayoutProblem"
)

// Evaluator scores a batch of decision vectors in a single call, index
// aligned with the batch. violations is nil for unconstrained problems.
type Evaluator interface {
	EvaluateBatch(ctx context.Context, vectors [][]float64, reference v1alpha1.Layout) (costs, violations [][]float64, err error)
}

// LayoutProblem is the search problem over the element poses of a layout.
// Its variables and bounds come from the layout codec; its fitness is
// whatever the evaluator answers.
type LayoutProblem struct {
	nObjectives  int
	nConstraints int
	nVariables   int
	initial      v1alpha1.Layout
	lower        []float64
	upper        []float64
	evaluator    Evaluator
}

var _ framework.Problem = &LayoutProblem{}

// NewLayoutProblem encodes initial to derive the problem's variables.
func NewLayoutProblem(nObjectives, nConstraints int, initial v1alpha1.Layout, evaluator Evaluator) (*LayoutProblem, error) {
	x, bounds, err := codec.Encode(initial)
	if err != nil {
		return nil, err
	}
	if nObjectives < 1 {
		return nil, fmt.Errorf("a layout problem needs at least one objective, got %d", nObjectives)
	}
	if nConstraints < 0 {
		return nil, fmt.Errorf("negative constraint count %d", nConstraints)
	}
	lower, upper := codec.SplitBounds(bounds)
	return &LayoutProblem{
		nObjectives:  nObjectives,
		nConstraints: nConstraints,
		nVariables:   len(x),
		initial:      initial.DeepCopy(),
		lower:        lower,
		upper:        upper,
		evaluator:    evaluator,
	}, nil
}

func (p *LayoutProblem) Name() string {
	return ProblemName
}

func (p *LayoutProblem) NumVariables() int   { return p.nVariables }
func (p *LayoutProblem) NumObjectives() int  { return p.nObjectives }
func (p *LayoutProblem) NumConstraints() int { return p.nConstraints }

func (p *LayoutProblem) LowerBounds() []float64 { return p.lower }
func (p *LayoutProblem) UpperBounds() []float64 { return p.upper }

// Evaluate sends the whole batch to the evaluator as one request.
func (p *LayoutProblem) Evaluate(ctx context.Context, x [][]float64) (framework.Evaluation, error) {
	costs, violations, err := p.evaluator.EvaluateBatch(ctx, x, p.initial)
	if err != nil {
		return framework.Evaluation{}, err
	}
	eval := framework.Evaluation{F: costs}
	if p.nConstraints > 0 {
		eval.G = violations
	}
	return eval, nil
}

// Decode maps decision vectors back to layouts of the initial elements.
func (p *LayoutProblem) Decode(x [][]float64) ([]v1alpha1.Layout, error) {
	return codec.DecodeAll(x, p.initial)
}
