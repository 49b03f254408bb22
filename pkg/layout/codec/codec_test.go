package codec

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auit-project/layoutsolver/apis/layout/v1alpha1"
	"github.com/auit-project/layoutsolver/pkg/multiobjective/framework"
)

func twoElementLayout() v1alpha1.Layout {
	return v1alpha1.Layout{Elements: []v1alpha1.Element{
		{
			ID:       "menu",
			Position: v1alpha1.Position{X: 0.5, Y: -1.25, Z: 2},
			Rotation: v1alpha1.Rotation{X: 0.1, Y: 0.2, Z: 0.3, W: 0.9},
		},
		{
			ID:       "clock",
			Position: v1alpha1.Position{X: -2.5, Y: 1.5, Z: -0.75},
			Rotation: v1alpha1.NewRotation(),
		},
	}}
}

func TestEncodeLayout(t *testing.T) {
	vector, bounds, err := Encode(twoElementLayout())
	require.NoError(t, err)

	want := []float64{
		0.5, -1.25, 2, 0.1, 0.2, 0.3, 0.9,
		-2.5, 1.5, -0.75, 0, 0, 0, 1,
	}
	if diff := cmp.Diff(want, vector); diff != "" {
		t.Errorf("unexpected vector (-want +got):\n%s", diff)
	}
	require.Len(t, bounds, 14)
}

func TestBoundsFollowSlotPosition(t *testing.T) {
	bounds := Bounds(3)
	require.Len(t, bounds, 21)

	for i, b := range bounds {
		switch i % VariablesPerElement {
		case 0, 2:
			assert.Equal(t, framework.Bounds{L: -3, H: 3}, b, "slot %d", i)
		case 1:
			assert.Equal(t, framework.Bounds{L: -2, H: 2}, b, "slot %d", i)
		default:
			assert.Equal(t, framework.Bounds{L: 0, H: 1}, b, "slot %d", i)
		}
	}

	lower, upper := SplitBounds(bounds)
	assert.Equal(t, -2.0, lower[8])
	assert.Equal(t, 2.0, upper[8])
}

func TestEncodeEmptyLayout(t *testing.T) {
	_, _, err := Encode(v1alpha1.Layout{})
	var encErr *EncodingError
	require.True(t, errors.As(err, &encErr), "want EncodingError, got %v", err)
}

func TestRoundTrip(t *testing.T) {
	layout := twoElementLayout()
	vector, _, err := Encode(layout)
	require.NoError(t, err)

	decoded, err := Decode(vector, layout)
	require.NoError(t, err)
	if diff := cmp.Diff(layout, decoded); diff != "" {
		t.Errorf("round trip changed the layout (-want +got):\n%s", diff)
	}
}

func TestRoundTripKeepsOutOfBoundsValues(t *testing.T) {
	layout := v1alpha1.Layout{Elements: []v1alpha1.Element{{
		ID:       "far",
		Position: v1alpha1.Position{X: 10, Y: -7, Z: 3.5},
		Rotation: v1alpha1.Rotation{X: -0.5, Y: 2, Z: 0, W: 1},
	}}}
	vector, _, err := Encode(layout)
	require.NoError(t, err)

	decoded, err := Decode(vector, layout)
	require.NoError(t, err)
	assert.Equal(t, layout, decoded)
}

func TestDecodeUsesReferenceIDs(t *testing.T) {
	ref := twoElementLayout()
	vector := make([]float64, 14)
	vector[7] = 1.5

	decoded, err := Decode(vector, ref)
	require.NoError(t, err)
	assert.Equal(t, []string{"menu", "clock"}, decoded.IDs())
	assert.Equal(t, 1.5, decoded.Elements[1].Position.X)
}

func TestDecodeLengthMismatch(t *testing.T) {
	_, err := Decode(make([]float64, 13), twoElementLayout())
	var decErr *DecodingError
	require.True(t, errors.As(err, &decErr), "want DecodingError, got %v", err)
	assert.Equal(t, 13, decErr.Got)
	assert.Equal(t, 14, decErr.Want)

	_, err = DecodeAll([][]float64{make([]float64, 14), make([]float64, 7)}, twoElementLayout())
	require.True(t, errors.As(err, &decErr))
}
