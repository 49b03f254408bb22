/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import "time"

// OptimizationRun is the archived record of one optimization call: the
// request, the final population and the reduction applied to it.
type OptimizationRun struct {
	// ID uniquely identifies the run.
	ID string `json:"id"`

	Spec   OptimizationRunSpec   `json:"spec"`
	Status OptimizationRunStatus `json:"status"`
}

// OptimizationRunSpec describes how a run was configured.
type OptimizationRunSpec struct {
	// Request is the optimization request that started the run.
	Request OptimizationRequest `json:"request"`

	// Algorithm is the name of the solver that produced the population.
	Algorithm string `json:"algorithm"`

	// Seed makes the run reproducible with a deterministic oracle.
	Seed uint64 `json:"seed"`

	// Generations is the generation budget of the run.
	Generations int `json:"generations"`

	// PopulationSize is the number of candidates per generation.
	PopulationSize int `json:"populationSize"`

	// ReductionMode is the strategy used to pick the proposed solutions.
	ReductionMode string `json:"reductionMode"`
}

// OptimizationRunStatus holds the results of a run.
type OptimizationRunStatus struct {
	// Phase of the run.
	// +kubebuilder:validation:Enum=Succeeded;Failed
	Phase OptimizationRunPhase `json:"phase"`

	// Message explains a failed run.
	Message string `json:"message,omitempty"`

	// Solutions holds the final population, index aligned with the
	// decision vectors the solver returned.
	Solutions []OptimizationSolution `json:"solutions,omitempty"`

	// Selected are the indices into Solutions chosen by the reduction.
	Selected []int `json:"selected,omitempty"`

	// Suggested is the index into Solutions of the suggested compromise.
	Suggested int `json:"suggested"`

	// Evaluations is the number of layouts scored by the oracle.
	Evaluations int `json:"evaluations"`

	// StartedAt and CompletedAt bracket the run.
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
}

// OptimizationRunPhase represents the outcome of a run.
type OptimizationRunPhase string

const (
	// OptimizationRunSucceeded indicates the run returned a population.
	OptimizationRunSucceeded OptimizationRunPhase = "Succeeded"

	// OptimizationRunFailed indicates the run was aborted by a fatal error.
	OptimizationRunFailed OptimizationRunPhase = "Failed"
)

// OptimizationSolution represents a single member of the final population.
type OptimizationSolution struct {
	// Rank is the non-domination rank of the solution (0 = Pareto front).
	Rank int `json:"rank"`

	// WeightedScore is the equal-weights scalarized score of the solution.
	WeightedScore float64 `json:"weightedScore"`

	// Variables is the decision vector of the solution.
	Variables []float64 `json:"variables"`

	// Objectives contains the cost vector returned by the oracle.
	Objectives []float64 `json:"objectives"`

	// Violations contains the constraint violations returned by the oracle.
	Violations []float64 `json:"violations,omitempty"`
}
