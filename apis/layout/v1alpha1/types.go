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

// Position is a point in 3D space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Rotation is a quaternion. It is neither normalized nor validated here;
// interpreting it is up to the caller and the oracle.
type Rotation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// NewRotation returns the identity quaternion.
func NewRotation() Rotation {
	return Rotation{W: 1}
}

// Element is a single UI element placed in the scene.
type Element struct {
	// ID identifies the element within its Layout. IDs must be unique
	// within a Layout.
	ID string `json:"id"`

	// Position of the element.
	Position Position `json:"position"`

	// Rotation of the element.
	Rotation Rotation `json:"rotation"`
}

// Layout is an ordered set of UI elements. The order of Elements is the
// order used for decision vectors, so it must be kept stable for the
// lifetime of an optimization run.
type Layout struct {
	Elements []Element `json:"elements"`
}

// Len returns the number of elements in the layout.
func (l Layout) Len() int {
	return len(l.Elements)
}

// IDs returns the element identifiers in layout order.
func (l Layout) IDs() []string {
	ids := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		ids[i] = e.ID
	}
	return ids
}

// DeepCopy returns a copy of the layout that shares no memory with l.
func (l Layout) DeepCopy() Layout {
	if l.Elements == nil {
		return Layout{}
	}
	elements := make([]Element, len(l.Elements))
	copy(elements, l.Elements)
	return Layout{Elements: elements}
}
