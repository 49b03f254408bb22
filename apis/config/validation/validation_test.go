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
	"testing"

	"github.com/stretchr/testify/assert"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/auit-project/layoutsolver/apis/config"
	"github.com/auit-project/layoutsolver/apis/layout/v1alpha1"
)

func layoutOf(ids ...string) v1alpha1.Layout {
	var l v1alpha1.Layout
	for _, id := range ids {
		l.Elements = append(l.Elements, v1alpha1.Element{ID: id, Rotation: v1alpha1.NewRotation()})
	}
	return l
}

func TestValidateOptimizationRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     v1alpha1.OptimizationRequest
		wantErr string
	}{
		{
			name: "valid",
			req:  v1alpha1.OptimizationRequest{NObjectives: 2, InitialLayout: layoutOf("menu", "clock")},
		},
		{
			name: "empty id is allowed",
			req:  v1alpha1.OptimizationRequest{NObjectives: 1, InitialLayout: layoutOf("", "clock")},
		},
		{
			name:    "duplicate empty ids",
			req:     v1alpha1.OptimizationRequest{NObjectives: 1, InitialLayout: layoutOf("", "")},
			wantErr: "Duplicate value",
		},
		{
			name:    "duplicate ids",
			req:     v1alpha1.OptimizationRequest{NObjectives: 1, InitialLayout: layoutOf("menu", "menu")},
			wantErr: "request.initialLayout.elements[1].id",
		},
		{
			name:    "no elements",
			req:     v1alpha1.OptimizationRequest{NObjectives: 1},
			wantErr: "at least one element is required",
		},
		{
			name:    "no objectives",
			req:     v1alpha1.OptimizationRequest{InitialLayout: layoutOf("menu")},
			wantErr: "request.nObjectives",
		},
		{
			name:    "negative constraints",
			req:     v1alpha1.OptimizationRequest{NObjectives: 1, NConstraints: -1, InitialLayout: layoutOf("menu")},
			wantErr: "request.nConstraints",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOptimizationRequest(field.NewPath("request"), &tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateOptimizerArgs(t *testing.T) {
	seed := uint64(1)
	args := &config.OptimizerArgs{Seed: &seed}
	config.SetDefaults_OptimizerArgs(args)
	assert.NoError(t, ValidateOptimizerArgs(field.NewPath("args"), args))

	args.Algorithm = "moead"
	args.Seed = nil
	err := ValidateOptimizerArgs(field.NewPath("args"), args)
	assert.ErrorContains(t, err, "args.algorithm")
	assert.ErrorContains(t, err, "args.seed")
}
