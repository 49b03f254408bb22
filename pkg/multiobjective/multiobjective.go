package multiobjective

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/klog/v2"

	"github.com/auit-project/layoutsolver/apis/config"
	"github.com/auit-project/layoutsolver/apis/config/validation"
	"github.com/auit-project/layoutsolver/apis/layout/v1alpha1"
	"github.com/auit-project/layoutsolver/pkg/archive"
	"github.com/auit-project/layoutsolver/pkg/layout/codec"
	"github.com/auit-project/layoutsolver/pkg/multiobjective/algorithms"
	"github.com/auit-project/layoutsolver/pkg/multiobjective/decomposition"
	"github.com/auit-project/layoutsolver/pkg/multiobjective/framework"
	"github.com/auit-project/layoutsolver/pkg/multiobjective/reduction"
	"github.com/auit-project/layoutsolver/pkg/multiobjective/refdirs"
	"github.com/auit-project/layoutsolver/pkg/oracle"
)

const (
	Name = "LayoutOptimizer"

	// degenerateTolerance is the objective distance under which a whole
	// population counts as a single point.
	degenerateTolerance = 1e-12
)

// Optimizer searches layouts that trade off the objectives scored by an
// oracle and reduces the final population to a few proposals.
type Optimizer struct {
	args  config.OptimizerArgs
	store archive.Store
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithArchive records every run in store. The store must be initialized.
func WithArchive(store archive.Store) Option {
	return func(o *Optimizer) {
		o.store = store
	}
}

// New returns an optimizer for the defaulted and validated args.
func New(ctx context.Context, args *config.OptimizerArgs, opts ...Option) (*Optimizer, error) {
	logger := klog.FromContext(ctx)
	logger.V(5).Info("creating instance of " + Name)

	a := *args
	config.SetDefaults_OptimizerArgs(&a)
	if err := validation.ValidateOptimizerArgs(field.NewPath("optimizerArgs"), &a); err != nil {
		return nil, err
	}
	logger.V(5).Info("optimizer configured", "algorithm", a.Algorithm, "generations", a.Generations, "populationSize", a.PopulationSize, "reductionMode", a.ReductionMode)

	o := &Optimizer{args: a}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Args returns the effective configuration.
func (o *Optimizer) Args() config.OptimizerArgs {
	return o.args
}

// Search runs the configured solver on the layout problem and returns the
// final population. Encoding problems are reported before the evaluator is
// called. Any evaluation failure aborts the search and no population is
// returned. A population whose members all share one objective vector is
// collapsed to a single member.
func (o *Optimizer) Search(ctx context.Context, nObjectives, nConstraints int, initial v1alpha1.Layout, evaluator Evaluator) (framework.Population, error) {
	problem, err := NewLayoutProblem(nObjectives, nConstraints, initial, evaluator)
	if err != nil {
		return framework.Population{}, err
	}
	return o.search(ctx, problem)
}

func (o *Optimizer) search(ctx context.Context, problem *LayoutProblem) (framework.Population, error) {
	logger := klog.FromContext(ctx)
	nObjectives, nConstraints := problem.NumObjectives(), problem.NumConstraints()

	seed := *o.args.Seed
	refDirs := refdirs.Energy(nObjectives, o.args.PopulationSize, seed)
	solver, err := algorithms.New(o.args.Algorithm, o.args.PopulationSize, refDirs,
		algorithms.WithObserver(progressObserver(logger, o.args.Generations)))
	if err != nil {
		return framework.Population{}, err
	}

	logger.V(4).Info("Starting search", "algorithm", solver.Name(), "variables", problem.NumVariables(), "objectives", nObjectives, "constraints", nConstraints)
	pop, err := solver.Run(ctx, problem, framework.MaxGenerations(o.args.Generations), seed)
	if err != nil {
		return framework.Population{}, err
	}
	if len(pop.X) != len(pop.F) {
		return framework.Population{}, fmt.Errorf("solver %s returned %d decision vectors for %d objective vectors", solver.Name(), len(pop.X), len(pop.F))
	}
	if pop.Collapsed(degenerateTolerance) {
		logger.V(4).Info("Population collapsed to a single point", "size", pop.Len())
		pop = pop.Subset([]int{0})
	}
	return pop, nil
}

// Result is the outcome of a successful optimization.
type Result struct {
	RunID string

	// Population is the final population. Layouts holds its decoded
	// members, index aligned.
	Population framework.Population
	Layouts    []v1alpha1.Layout

	Selected        []v1alpha1.Layout
	SelectedIndices []int
	Suggested       v1alpha1.Layout
	SuggestedIndex  int

	// Evaluations is the number of layouts the oracle scored.
	Evaluations int
}

// Response builds the reply to the adaptation manager.
func (r *Result) Response(managerID string) v1alpha1.OptimizationResponse {
	return v1alpha1.OptimizationResponse{
		ManagerID: managerID,
		Solutions: r.Selected,
		Suggested: r.Suggested,
	}
}

// Optimize answers an optimization request using the oracle behind
// transport. The run owns its oracle bridge; transport must not be shared
// with concurrent runs. On failure no result is returned.
func (o *Optimizer) Optimize(ctx context.Context, transport oracle.Transport, req v1alpha1.OptimizationRequest) (*Result, error) {
	logger := klog.FromContext(ctx)
	run := o.newRun(req)
	logger = klog.LoggerWithValues(logger, "run", run.ID)
	ctx = klog.NewContext(ctx, logger)

	result, evaluations, err := o.optimize(ctx, transport, req, run.ID)
	run.Status.CompletedAt = time.Now().UTC()
	run.Status.Evaluations = evaluations
	if err != nil {
		logger.V(2).Info("Optimization failed", "err", err)
		run.Status.Phase = v1alpha1.OptimizationRunFailed
		run.Status.Message = err.Error()
		o.record(ctx, run)
		return nil, err
	}

	logger.V(2).Info("Optimization complete", "population", result.Population.Len(), "proposals", len(result.Selected), "suggested", result.SuggestedIndex, "duration", run.Status.CompletedAt.Sub(run.Status.StartedAt))
	run.Status.Phase = v1alpha1.OptimizationRunSucceeded
	run.Status.Solutions = solutions(result.Population)
	run.Status.Selected = result.SelectedIndices
	run.Status.Suggested = result.SuggestedIndex
	o.record(ctx, run)
	return result, nil
}

func (o *Optimizer) optimize(ctx context.Context, transport oracle.Transport, req v1alpha1.OptimizationRequest, runID string) (*Result, int, error) {
	if _, _, err := codec.Encode(req.InitialLayout); err != nil {
		return nil, 0, err
	}
	if err := validation.ValidateOptimizationRequest(field.NewPath("request"), &req); err != nil {
		return nil, 0, err
	}

	bridge := oracle.NewBridge(transport, req.NObjectives, req.NConstraints, oracle.WithManagerID(req.ManagerID))
	if o.args.Handshake {
		if err := bridge.Hello(ctx); err != nil {
			return nil, 0, err
		}
	}

	problem, err := NewLayoutProblem(req.NObjectives, req.NConstraints, req.InitialLayout, bridge)
	if err != nil {
		return nil, 0, err
	}
	pop, err := o.search(ctx, problem)
	if err != nil {
		return nil, bridge.Evaluations(), err
	}

	layouts, err := problem.Decode(pop.X)
	if err != nil {
		return nil, bridge.Evaluations(), err
	}
	reduced, err := reduction.Reduce(pop, o.args.ReductionMode, reduction.Options{
		ProposalCount: *o.args.ProposalCount,
		Seed:          *o.args.Seed,
		AASF:          decomposition.NewAASF(),
		HighTradeoff:  decomposition.HighTradeoff{Epsilon: decomposition.DefaultEpsilon},
	})
	if err != nil {
		return nil, bridge.Evaluations(), err
	}

	result := &Result{
		RunID:           runID,
		Population:      pop,
		Layouts:         layouts,
		SelectedIndices: reduced.Selected,
		Suggested:       layouts[reduced.Suggested],
		SuggestedIndex:  reduced.Suggested,
		Evaluations:     bridge.Evaluations(),
	}
	for _, i := range reduced.Selected {
		result.Selected = append(result.Selected, layouts[i])
	}
	return result, bridge.Evaluations(), nil
}

func (o *Optimizer) newRun(req v1alpha1.OptimizationRequest) v1alpha1.OptimizationRun {
	return v1alpha1.OptimizationRun{
		ID: archive.NewRunID(),
		Spec: v1alpha1.OptimizationRunSpec{
			Request:        req,
			Algorithm:      o.args.Algorithm,
			Seed:           *o.args.Seed,
			Generations:    o.args.Generations,
			PopulationSize: o.args.PopulationSize,
			ReductionMode:  string(o.args.ReductionMode),
		},
		Status: v1alpha1.OptimizationRunStatus{
			StartedAt: time.Now().UTC(),
		},
	}
}

func (o *Optimizer) record(ctx context.Context, run v1alpha1.OptimizationRun) {
	if o.store == nil {
		return
	}
	if err := o.store.SaveRun(ctx, run); err != nil {
		klog.FromContext(ctx).Error(err, "Failed to archive run", "run", run.ID)
	}
}

// solutions ranks the population and scores it with equal weights.
func solutions(pop framework.Population) []v1alpha1.OptimizationSolution {
	individuals := pop.Individuals()
	framework.NonDominatedSort(individuals)
	scores := decomposition.NewAASF().Do(pop.F, refdirs.EqualWeights(len(pop.F[0])))

	out := make([]v1alpha1.OptimizationSolution, len(individuals))
	for i, ind := range individuals {
		out[i] = v1alpha1.OptimizationSolution{
			Rank:          ind.Rank,
			WeightedScore: scores[i],
			Variables:     ind.Variables,
			Objectives:    ind.Objectives,
			Violations:    ind.Violations,
		}
	}
	return out
}
