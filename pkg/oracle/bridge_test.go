package oracle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auit-project/layoutsolver/apis/layout/v1alpha1"
	"github.com/auit-project/layoutsolver/pkg/layout/codec"
	"github.com/auit-project/layoutsolver/pkg/oracle"
	"github.com/auit-project/layoutsolver/pkg/oracle/oracletest"
)

func reference() v1alpha1.Layout {
	return v1alpha1.Layout{Elements: []v1alpha1.Element{
		{ID: "a", Rotation: v1alpha1.NewRotation()},
		{ID: "b", Rotation: v1alpha1.NewRotation()},
	}}
}

func vector(first float64) []float64 {
	v := make([]float64, 2*codec.VariablesPerElement)
	v[0] = first
	v[1] = -first
	return v
}

func firstTwoSlots(x []float64) ([]float64, []float64) {
	return []float64{x[0], x[1]}, nil
}

func TestEvaluateBatchKeepsOrder(t *testing.T) {
	// The oracle scores the batch back to front; the reply must still be
	// aligned with the request.
	server := oracletest.NewServer(func(layouts []v1alpha1.Layout) (v1alpha1.EvaluationResponse, error) {
		costs := make([][]float64, len(layouts))
		for i := len(layouts) - 1; i >= 0; i-- {
			costs[i] = []float64{layouts[i].Elements[0].Position.X, layouts[i].Elements[0].Position.Y}
		}
		return v1alpha1.EvaluationResponse{Costs: costs}, nil
	})
	bridge := oracle.NewBridge(server.Transport(), 2, 0)

	costs, violations, err := bridge.EvaluateBatch(context.Background(), [][]float64{vector(1), vector(2), vector(3)}, reference())
	require.NoError(t, err)
	assert.Nil(t, violations)
	assert.Equal(t, [][]float64{{1, -1}, {2, -2}, {3, -3}}, costs)
	assert.Equal(t, 1, bridge.Requests())
	assert.Equal(t, 3, bridge.Evaluations())

	requests := server.Requests()
	require.Len(t, requests, 1)
	require.Len(t, requests[0].Layouts, 3)
	assert.Equal(t, []string{"a", "b"}, requests[0].Layouts[2].IDs())
}

func TestEvaluateBatchOneRequestPerCall(t *testing.T) {
	server := oracletest.NewServer(oracletest.FromVector(firstTwoSlots))
	bridge := oracle.NewBridge(server.Transport(), 2, 0, oracle.WithManagerID("manager-1"))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, _, err := bridge.EvaluateBatch(ctx, [][]float64{vector(0.5)}, reference())
		require.NoError(t, err)
	}

	requests := server.Requests()
	require.Len(t, requests, 3)
	for _, r := range requests {
		assert.Equal(t, "manager-1", r.ManagerID)
		assert.Len(t, r.Layouts, 1)
	}
}

func TestEvaluateBatchWithConstraints(t *testing.T) {
	server := oracletest.NewServer(oracletest.FromVector(func(x []float64) ([]float64, []float64) {
		return []float64{x[0]}, []float64{x[0] - 1, 0}
	}))
	bridge := oracle.NewBridge(server.Transport(), 1, 2)

	costs, violations, err := bridge.EvaluateBatch(context.Background(), [][]float64{vector(2), vector(0)}, reference())
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2}, {0}}, costs)
	assert.Equal(t, [][]float64{{1, 0}, {-1, 0}}, violations)
}

func TestEvaluateBatchOracleError(t *testing.T) {
	server := oracletest.NewServer(func([]v1alpha1.Layout) (v1alpha1.EvaluationResponse, error) {
		return v1alpha1.EvaluationResponse{}, errors.New("scene not loaded")
	})
	bridge := oracle.NewBridge(server.Transport(), 2, 0)

	_, _, err := bridge.EvaluateBatch(context.Background(), [][]float64{vector(1)}, reference())
	var oracleErr *oracle.OracleError
	require.True(t, errors.As(err, &oracleErr), "want OracleError, got %v", err)
	assert.Equal(t, "scene not loaded", oracleErr.Message)
}

func TestEvaluateBatchProtocolErrors(t *testing.T) {
	tests := []struct {
		name         string
		reply        []byte
		nConstraints int
	}{
		{
			name:  "too many objectives",
			reply: oracletest.Reply(v1alpha1.KindEvaluationResponse, v1alpha1.EvaluationResponse{Costs: [][]float64{{1, 2, 3}}}),
		},
		{
			name:  "batch length mismatch",
			reply: oracletest.Reply(v1alpha1.KindEvaluationResponse, v1alpha1.EvaluationResponse{Costs: [][]float64{{1, 2}, {3, 4}}}),
		},
		{
			name:         "missing violations",
			reply:        oracletest.Reply(v1alpha1.KindEvaluationResponse, v1alpha1.EvaluationResponse{Costs: [][]float64{{1, 2}}}),
			nConstraints: 1,
		},
		{
			name:         "short violations",
			reply:        oracletest.Reply(v1alpha1.KindEvaluationResponse, v1alpha1.EvaluationResponse{Costs: [][]float64{{1, 2}}, Violations: [][]float64{{}}}),
			nConstraints: 1,
		},
		{
			name:  "unexpected kind",
			reply: oracletest.Reply(v1alpha1.KindHelloResponse, v1alpha1.HelloResponse{}),
		},
		{
			name:  "malformed body",
			reply: []byte("e{not json"),
		},
		{
			name:  "empty reply",
			reply: []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge := oracle.NewBridge(oracletest.StaticTransport(tt.reply), 2, tt.nConstraints)
			_, _, err := bridge.EvaluateBatch(context.Background(), [][]float64{vector(1)}, reference())
			var protoErr *oracle.ProtocolError
			require.True(t, errors.As(err, &protoErr), "want ProtocolError, got %v", err)
		})
	}
}

func TestEvaluateBatchIgnoresViolationsWithoutConstraints(t *testing.T) {
	reply := oracletest.Reply(v1alpha1.KindEvaluationResponse, v1alpha1.EvaluationResponse{
		Costs:      [][]float64{{1, 2}},
		Violations: [][]float64{{5}},
	})
	bridge := oracle.NewBridge(oracletest.StaticTransport(reply), 2, 0)

	_, violations, err := bridge.EvaluateBatch(context.Background(), [][]float64{vector(1)}, reference())
	require.NoError(t, err)
	assert.Nil(t, violations)
}

func TestEvaluateBatchTransportError(t *testing.T) {
	bridge := oracle.NewBridge(oracletest.UnreachableTransport(), 2, 0)

	_, _, err := bridge.EvaluateBatch(context.Background(), [][]float64{vector(1)}, reference())
	var transportErr *oracle.TransportError
	require.True(t, errors.As(err, &transportErr), "want TransportError, got %v", err)
	assert.ErrorIs(t, err, oracletest.ErrUnreachable)

	var oracleErr *oracle.OracleError
	assert.False(t, errors.As(err, &oracleErr), "transport failures must not look like oracle failures")
}

func TestEvaluateBatchDecodingError(t *testing.T) {
	server := oracletest.NewServer(oracletest.FromVector(firstTwoSlots))
	bridge := oracle.NewBridge(server.Transport(), 2, 0)

	_, _, err := bridge.EvaluateBatch(context.Background(), [][]float64{make([]float64, 3)}, reference())
	var decErr *codec.DecodingError
	require.True(t, errors.As(err, &decErr), "want DecodingError, got %v", err)
	assert.Empty(t, server.Requests(), "nothing may be sent for an undecodable batch")
}

func TestHello(t *testing.T) {
	server := oracletest.NewServer(oracletest.FromVector(firstTwoSlots))
	bridge := oracle.NewBridge(server.Transport(), 2, 0)

	require.NoError(t, bridge.Hello(context.Background()))
	assert.Equal(t, 1, server.Hellos())

	bridge = oracle.NewBridge(oracletest.StaticTransport(oracletest.ErrorReply("busy")), 2, 0)
	var oracleErr *oracle.OracleError
	require.True(t, errors.As(bridge.Hello(context.Background()), &oracleErr))
}
