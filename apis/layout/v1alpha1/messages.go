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

// MessageKind is the single character that prefixes every message on the
// wire. Upper case kinds are requests, lower case kinds are responses.
type MessageKind byte

const (
	// KindHelloRequest opens a session with the peer.
	KindHelloRequest MessageKind = 'H'
	// KindHelloResponse acknowledges a HelloRequest.
	KindHelloResponse MessageKind = 'h'
	// KindOptimizationRequest asks the solver for Pareto optimal layouts.
	KindOptimizationRequest MessageKind = 'O'
	// KindOptimizationResponse carries the solver's answer.
	KindOptimizationResponse MessageKind = 'o'
	// KindEvaluationRequest asks the oracle to score a batch of layouts.
	KindEvaluationRequest MessageKind = 'E'
	// KindEvaluationResponse carries the oracle's scores.
	KindEvaluationResponse MessageKind = 'e'
	// KindErrorResponse reports a failure to handle a request.
	KindErrorResponse MessageKind = 'x'
)

// String returns the kind as it appears on the wire.
func (k MessageKind) String() string {
	return string(rune(k))
}

// HelloRequest establishes a connection. It carries no data.
type HelloRequest struct{}

// HelloResponse acknowledges a HelloRequest. It carries no data.
type HelloResponse struct{}

// OptimizationRequest asks the solver for the Pareto optimal solutions of a
// layout optimization problem.
type OptimizationRequest struct {
	// ManagerID identifies the adaptation manager that issued the request.
	// It is echoed in every evaluation request and in the response.
	ManagerID string `json:"managerId,omitempty"`

	// NObjectives is the number of objectives the oracle evaluates.
	NObjectives int `json:"nObjectives"`

	// NConstraints is the number of inequality constraints (<= 0 is feasible).
	NConstraints int `json:"nConstraints,omitempty"`

	// InitialLayout fixes the element ids and their order.
	InitialLayout Layout `json:"initialLayout"`
}

// OptimizationResponse contains the selected Pareto optimal layouts and a
// suggested default among them.
type OptimizationResponse struct {
	ManagerID string   `json:"managerId,omitempty"`
	Solutions []Layout `json:"solutions"`
	Suggested Layout   `json:"suggested"`
}

// EvaluationRequest asks the oracle for the cost vectors of a batch of layouts.
type EvaluationRequest struct {
	ManagerID string   `json:"managerId,omitempty"`
	Layouts   []Layout `json:"layouts"`
}

// EvaluationResponse holds one cost vector, and optionally one constraint
// violation vector, per layout of the matching EvaluationRequest, in the
// same order.
type EvaluationResponse struct {
	Costs      [][]float64 `json:"costs"`
	Violations [][]float64 `json:"violations,omitempty"`
}

// ErrorResponse reports that a request could not be handled.
type ErrorResponse struct {
	Error string `json:"error"`
}
