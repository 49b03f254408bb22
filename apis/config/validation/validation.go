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

package validation

import (
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/auit-project/layoutsolver/apis/config"
	"github.com/auit-project/layoutsolver/apis/layout/v1alpha1"
)

var (
	validAlgorithms     = []string{"nsga2", "nsga3"}
	validReductionModes = []string{
		string(config.ReductionModeAll),
		string(config.ReductionModeHighTradeoff),
		string(config.ReductionModeScalarization),
	}
	validArchives = []string{"", "memory", "sqlite"}
)

// ValidateOptimizerArgs validates arguments after defaulting.
func ValidateOptimizerArgs(path *field.Path, args *config.OptimizerArgs) error {
	var allErrs field.ErrorList

	if args.Seed == nil {
		allErrs = append(allErrs, field.Required(path.Child("seed"), "a seed is required for reproducible runs"))
	}
	if args.Generations < 1 {
		allErrs = append(allErrs, field.Invalid(path.Child("generations"), args.Generations, "must be at least 1"))
	}
	if args.PopulationSize < 2 {
		allErrs = append(allErrs, field.Invalid(path.Child("populationSize"), args.PopulationSize, "must be at least 2"))
	}
	if !contains(validAlgorithms, args.Algorithm) {
		allErrs = append(allErrs, field.NotSupported(path.Child("algorithm"), args.Algorithm, validAlgorithms))
	}
	if !contains(validReductionModes, string(args.ReductionMode)) {
		allErrs = append(allErrs, field.NotSupported(path.Child("reductionMode"), args.ReductionMode, validReductionModes))
	}
	if args.ProposalCount != nil && *args.ProposalCount < 0 {
		allErrs = append(allErrs, field.Invalid(path.Child("proposalCount"), *args.ProposalCount, "must not be negative"))
	}
	if !contains(validArchives, args.Archive) {
		allErrs = append(allErrs, field.NotSupported(path.Child("archive"), args.Archive, validArchives))
	}
	if args.Archive == "sqlite" && args.ArchivePath == "" {
		allErrs = append(allErrs, field.Required(path.Child("archivePath"), "required for the sqlite archive"))
	}

	return allErrs.ToAggregate()
}

// ValidateOptimizationRequest validates the problem definition received from
// an adaptation manager.
func ValidateOptimizationRequest(path *field.Path, req *v1alpha1.OptimizationRequest) error {
	var allErrs field.ErrorList

	if req.NObjectives < 1 {
		allErrs = append(allErrs, field.Invalid(path.Child("nObjectives"), req.NObjectives, "must be at least 1"))
	}
	if req.NConstraints < 0 {
		allErrs = append(allErrs, field.Invalid(path.Child("nConstraints"), req.NConstraints, "must not be negative"))
	}

	elementsPath := path.Child("initialLayout", "elements")
	if len(req.InitialLayout.Elements) == 0 {
		allErrs = append(allErrs, field.Required(elementsPath, "at least one element is required"))
	}
	seen := make(map[string]struct{}, len(req.InitialLayout.Elements))
	for i, e := range req.InitialLayout.Elements {
		if _, ok := seen[e.ID]; ok {
			allErrs = append(allErrs, field.Duplicate(elementsPath.Index(i).Child("id"), e.ID))
		}
		seen[e.ID] = struct{}{}
	}

	return allErrs.ToAggregate()
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
