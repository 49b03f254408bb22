// Package codec maps layouts to the flat decision vectors searched by the
// solvers and back.
//
// Every element occupies VariablesPerElement consecutive slots laid out as
// [x, y, z, qx, qy, qz, qw], in the order of the layout's elements. Bounds
// depend only on the slot within that block, never on the element.
package codec

import (
	"fmt"

	"github.com/auit-project/layoutsolver/apis/layout/v1alpha1"
	"github.com/auit-project/layoutsolver/pkg/multiobjective/framework"
)

// VariablesPerElement is the number of decision variables of one element:
// three for the position and four for the rotation quaternion.
const VariablesPerElement = 7

var (
	// HorizontalBounds apply to the x and z position slots.
	HorizontalBounds = framework.Bounds{L: -3, H: 3}
	// VerticalBounds apply to the y position slot.
	VerticalBounds = framework.Bounds{L: -2, H: 2}
	// RotationBounds apply to the four quaternion slots.
	RotationBounds = framework.Bounds{L: 0, H: 1}
)

// EncodingError reports a layout that cannot be turned into a decision vector.
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string {
	return "encoding layout: " + e.Reason
}

// DecodingError reports a decision vector that does not fit the reference layout.
type DecodingError struct {
	Got, Want int
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decoding layout: vector has %d variables, reference layout needs %d", e.Got, e.Want)
}

// Encode flattens layout into a decision vector and returns the bounds of
// every variable. Values are copied as is, out of bounds values included.
func Encode(layout v1alpha1.Layout) ([]float64, []framework.Bounds, error) {
	n := layout.Len()
	if n == 0 {
		return nil, nil, &EncodingError{Reason: "layout has no elements"}
	}

	vector := make([]float64, 0, n*VariablesPerElement)
	for _, e := range layout.Elements {
		vector = append(vector,
			e.Position.X, e.Position.Y, e.Position.Z,
			e.Rotation.X, e.Rotation.Y, e.Rotation.Z, e.Rotation.W,
		)
	}
	return vector, Bounds(n), nil
}

// Bounds returns the bounds of the decision vector of a layout with n elements.
func Bounds(n int) []framework.Bounds {
	b := make([]framework.Bounds, 0, n*VariablesPerElement)
	for i := 0; i < n; i++ {
		b = append(b,
			HorizontalBounds, VerticalBounds, HorizontalBounds,
			RotationBounds, RotationBounds, RotationBounds, RotationBounds,
		)
	}
	return b
}

// SplitBounds returns the lower and upper limits of b as separate slices.
func SplitBounds(b []framework.Bounds) (lower, upper []float64) {
	lower = make([]float64, len(b))
	upper = make([]float64, len(b))
	for i := range b {
		lower[i] = b[i].L
		upper[i] = b[i].H
	}
	return lower, upper
}

// Decode rebuilds a layout from vector, taking element ids and order from
// reference.
func Decode(vector []float64, reference v1alpha1.Layout) (v1alpha1.Layout, error) {
	want := reference.Len() * VariablesPerElement
	if len(vector) != want {
		return v1alpha1.Layout{}, &DecodingError{Got: len(vector), Want: want}
	}

	elements := make([]v1alpha1.Element, reference.Len())
	for i, ref := range reference.Elements {
		x := vector[i*VariablesPerElement : (i+1)*VariablesPerElement]
		elements[i] = v1alpha1.Element{
			ID:       ref.ID,
			Position: v1alpha1.Position{X: x[0], Y: x[1], Z: x[2]},
			Rotation: v1alpha1.Rotation{X: x[3], Y: x[4], Z: x[5], W: x[6]},
		}
	}
	return v1alpha1.Layout{Elements: elements}, nil
}

// DecodeAll decodes every vector against the same reference layout.
func DecodeAll(vectors [][]float64, reference v1alpha1.Layout) ([]v1alpha1.Layout, error) {
	layouts := make([]v1alpha1.Layout, len(vectors))
	for i, v := range vectors {
		l, err := Decode(v, reference)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		layouts[i] = l
	}
	return layouts, nil
}
