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

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// LoadFile reads OptimizerArgs from a YAML or JSON file. Unknown fields are
// rejected so that typos do not silently fall back to defaults.
func LoadFile(path string) (*OptimizerArgs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading optimizer config: %w", err)
	}
	return Load(data)
}

// Load decodes OptimizerArgs from YAML or JSON bytes.
func Load(data []byte) (*OptimizerArgs, error) {
	args := &OptimizerArgs{}
	if err := yaml.UnmarshalStrict(data, args); err != nil {
		return nil, fmt.Errorf("decoding optimizer config: %w", err)
	}
	return args, nil
}
