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

package config

// ReductionMode selects how the final population is reduced to the set of
// proposed layouts.
type ReductionMode string

const (
	// ReductionModeAll proposes every member of the final population.
	ReductionModeAll ReductionMode = "all"
	// ReductionModeHighTradeoff proposes the high tradeoff points.
	ReductionModeHighTradeoff ReductionMode = "high-tradeoff"
	// ReductionModeScalarization proposes the AASF optimum of each weight vector.
	ReductionModeScalarization ReductionMode = "scalarization"
)

// OptimizerArgs holds the arguments used to configure the layout optimizer.
type OptimizerArgs struct {
	// Seed for every random decision of a run. Required: two runs with the
	// same seed and a deterministic oracle produce identical populations.
	Seed *uint64 `json:"seed,omitempty"`

	// Generations is the fixed generation budget.
	Generations int `json:"generations,omitempty"`

	// PopulationSize is the number of candidates evaluated per generation.
	PopulationSize int `json:"populationSize,omitempty"`

	// Algorithm names the solver: "nsga2" or "nsga3".
	Algorithm string `json:"algorithm,omitempty"`

	// ReductionMode selects how proposals are picked from the population.
	ReductionMode ReductionMode `json:"reductionMode,omitempty"`

	// ProposalCount is the number of energy-spread weight vectors added to
	// the objective corners by the scalarization reduction. Zero adds the
	// equal-weights vector only.
	ProposalCount *int `json:"proposalCount,omitempty"`

	// OracleEndpoint is the ZeroMQ endpoint of the oracle.
	OracleEndpoint string `json:"oracleEndpoint,omitempty"`

	// Handshake sends a hello request before the first evaluation.
	Handshake bool `json:"handshake,omitempty"`

	// Archive selects where runs are recorded: "", "memory" or "sqlite".
	Archive string `json:"archive,omitempty"`

	// ArchivePath is the sqlite database file when Archive is "sqlite".
	ArchivePath string `json:"archivePath,omitempty"`
}

const (
	DefaultGenerations    = 100
	DefaultPopulationSize = 100
	DefaultAlgorithm      = "nsga3"
	DefaultReductionMode  = ReductionModeScalarization
	DefaultProposalCount  = 10
	DefaultOracleEndpoint = "tcp://localhost:5556"
	DefaultArchivePath    = "layoutsolver.db"
)

// SetDefaults_OptimizerArgs fills in every unset field except Seed, which
// has to be chosen by the caller.
func SetDefaults_OptimizerArgs(args *OptimizerArgs) {
	if args.Generations == 0 {
		args.Generations = DefaultGenerations
	}
	if args.PopulationSize == 0 {
		args.PopulationSize = DefaultPopulationSize
	}
	if args.Algorithm == "" {
		args.Algorithm = DefaultAlgorithm
	}
	if args.ReductionMode == "" {
		args.ReductionMode = DefaultReductionMode
	}
	if args.ProposalCount == nil {
		count := DefaultProposalCount
		args.ProposalCount = &count
	}
	if args.OracleEndpoint == "" {
		args.OracleEndpoint = DefaultOracleEndpoint
	}
	if args.Archive == "sqlite" && args.ArchivePath == "" {
		args.ArchivePath = DefaultArchivePath
	}
}
