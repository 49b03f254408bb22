// Package oracle turns batches of decision vectors into cost and constraint
// violation vectors by asking an external evaluator, the oracle.
//
// Every call is exactly one request/reply pair. The bridge never reorders,
// deduplicates or merges batches, and it has no timeout of its own: a stalled
// oracle stalls the caller until the transport gives up.
package oracle

import (
	"context"
	"errors"

	"k8s.io/klog/v2"

	"github.com/auit-project/layoutsolver/apis/layout/v1alpha1"
	"github.com/auit-project/layoutsolver/pkg/layout/codec"
)

// Bridge evaluates candidate layouts through a Transport.
type Bridge struct {
	transport    Transport
	nObjectives  int
	nConstraints int
	managerID    string

	requests    int
	evaluations int
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithManagerID tags every evaluation request with the id of the adaptation
// manager that owns the run.
func WithManagerID(id string) Option {
	return func(b *Bridge) {
		b.managerID = id
	}
}

// NewBridge returns a bridge expecting nObjectives costs and nConstraints
// violations per layout. With nConstraints == 0 violations are neither
// expected nor read.
func NewBridge(transport Transport, nObjectives, nConstraints int, opts ...Option) *Bridge {
	b := &Bridge{
		transport:    transport,
		nObjectives:  nObjectives,
		nConstraints: nConstraints,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Requests returns the number of evaluation requests sent so far.
func (b *Bridge) Requests() int { return b.requests }

// Evaluations returns the number of layouts evaluated so far.
func (b *Bridge) Evaluations() int { return b.evaluations }

// EvaluateBatch decodes every vector against reference, sends all layouts in
// one evaluation request and returns the costs and violations of the reply,
// aligned with vectors. violations is nil when no constraints are configured.
func (b *Bridge) EvaluateBatch(ctx context.Context, vectors [][]float64, reference v1alpha1.Layout) (costs, violations [][]float64, err error) {
	logger := klog.FromContext(ctx)

	layouts, err := codec.DecodeAll(vectors, reference)
	if err != nil {
		return nil, nil, err
	}

	request, err := EncodeMessage(v1alpha1.KindEvaluationRequest, v1alpha1.EvaluationRequest{
		ManagerID: b.managerID,
		Layouts:   layouts,
	})
	if err != nil {
		return nil, nil, err
	}

	b.requests++
	logger.V(5).Info("requesting evaluation", "layouts", len(layouts), "request", b.requests)
	reply, err := b.roundTrip(ctx, request)
	if err != nil {
		return nil, nil, err
	}

	kind, body, err := SplitMessage(reply)
	if err != nil {
		return nil, nil, &ProtocolError{Reason: "evaluation reply", Err: err}
	}
	switch kind {
	case v1alpha1.KindEvaluationResponse:
	case v1alpha1.KindErrorResponse:
		return nil, nil, decodeOracleError(body)
	default:
		return nil, nil, protocolErrorf("expected %s or %s reply to an evaluation request, got %q", v1alpha1.KindEvaluationResponse, v1alpha1.KindErrorResponse, kind.String())
	}

	var resp v1alpha1.EvaluationResponse
	if err := DecodeBody(body, &resp); err != nil {
		return nil, nil, &ProtocolError{Reason: "decoding evaluation reply", Err: err}
	}
	if err := b.checkShape(len(vectors), resp); err != nil {
		return nil, nil, err
	}

	b.evaluations += len(vectors)
	if b.nConstraints == 0 {
		return resp.Costs, nil, nil
	}
	return resp.Costs, resp.Violations, nil
}

// Hello performs the handshake with the oracle.
func (b *Bridge) Hello(ctx context.Context) error {
	request, err := EncodeMessage(v1alpha1.KindHelloRequest, v1alpha1.HelloRequest{})
	if err != nil {
		return err
	}
	reply, err := b.roundTrip(ctx, request)
	if err != nil {
		return err
	}
	kind, body, err := SplitMessage(reply)
	if err != nil {
		return &ProtocolError{Reason: "hello reply", Err: err}
	}
	switch kind {
	case v1alpha1.KindHelloResponse:
		klog.FromContext(ctx).V(4).Info("oracle answered hello")
		return nil
	case v1alpha1.KindErrorResponse:
		return decodeOracleError(body)
	default:
		return protocolErrorf("expected %s reply to a hello request, got %q", v1alpha1.KindHelloResponse, kind.String())
	}
}

func (b *Bridge) roundTrip(ctx context.Context, request []byte) ([]byte, error) {
	reply, err := b.transport.RoundTrip(ctx, request)
	if err != nil {
		var transportErr *TransportError
		if errors.As(err, &transportErr) {
			return nil, err
		}
		return nil, &TransportError{Op: "round trip", Err: err}
	}
	return reply, nil
}

func (b *Bridge) checkShape(batch int, resp v1alpha1.EvaluationResponse) error {
	if len(resp.Costs) != batch {
		return protocolErrorf("reply has %d cost vectors for %d layouts", len(resp.Costs), batch)
	}
	for i, c := range resp.Costs {
		if len(c) != b.nObjectives {
			return protocolErrorf("cost vector %d has %d values, want %d objectives", i, len(c), b.nObjectives)
		}
	}
	if b.nConstraints == 0 {
		return nil
	}
	if len(resp.Violations) != batch {
		return protocolErrorf("reply has %d violation vectors for %d layouts", len(resp.Violations), batch)
	}
	for i, v := range resp.Violations {
		if len(v) != b.nConstraints {
			return protocolErrorf("violation vector %d has %d values, want %d constraints", i, len(v), b.nConstraints)
		}
	}
	return nil
}

func decodeOracleError(body []byte) error {
	var resp v1alpha1.ErrorResponse
	if err := DecodeBody(body, &resp); err != nil {
		return &ProtocolError{Reason: "decoding error reply", Err: err}
	}
	return &OracleError{Message: resp.Error}
}
