// Package oracletest provides an in-process oracle for tests.
package oracletest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-zeromq/zmq4"

	"github.com/auit-project/layoutsolver/apis/layout/v1alpha1"
	"github.com/auit-project/layoutsolver/pkg/layout/codec"
	"github.com/auit-project/layoutsolver/pkg/oracle"
)

// EvaluateFunc scores a batch of layouts. Returning an error makes the
// server answer with an error reply carrying the error's text.
type EvaluateFunc func(layouts []v1alpha1.Layout) (v1alpha1.EvaluationResponse, error)

// VectorFunc computes the costs and violations of one decision vector.
type VectorFunc func(x []float64) (costs, violations []float64)

// FromVector builds an EvaluateFunc that encodes every layout back into its
// decision vector and scores it with fn. Violations are only reported when
// fn returns some.
func FromVector(fn VectorFunc) EvaluateFunc {
	return func(layouts []v1alpha1.Layout) (v1alpha1.EvaluationResponse, error) {
		var resp v1alpha1.EvaluationResponse
		resp.Costs = make([][]float64, len(layouts))
		for i, l := range layouts {
			x, _, err := codec.Encode(l)
			if err != nil {
				return v1alpha1.EvaluationResponse{}, err
			}
			costs, violations := fn(x)
			resp.Costs[i] = costs
			if violations != nil {
				resp.Violations = append(resp.Violations, violations)
			}
		}
		return resp, nil
	}
}

// Server answers hello and evaluation requests.
type Server struct {
	evaluate EvaluateFunc

	mu       sync.Mutex
	requests []v1alpha1.EvaluationRequest
	hellos   int
}

// NewServer returns a server that scores layouts with evaluate.
func NewServer(evaluate EvaluateFunc) *Server {
	return &Server{evaluate: evaluate}
}

// Transport returns an in-process transport talking to the server.
func (s *Server) Transport() oracle.Transport {
	return oracle.TransportFunc(func(_ context.Context, request []byte) ([]byte, error) {
		return s.Handle(request), nil
	})
}

// Handle answers a single wire message.
func (s *Server) Handle(request []byte) []byte {
	kind, body, err := oracle.SplitMessage(request)
	if err != nil {
		return ErrorReply(err.Error())
	}

	switch kind {
	case v1alpha1.KindHelloRequest:
		s.mu.Lock()
		s.hellos++
		s.mu.Unlock()
		return mustEncode(v1alpha1.KindHelloResponse, v1alpha1.HelloResponse{})
	case v1alpha1.KindEvaluationRequest:
		var req v1alpha1.EvaluationRequest
		if err := oracle.DecodeBody(body, &req); err != nil {
			return ErrorReply(err.Error())
		}
		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()

		resp, err := s.evaluate(req.Layouts)
		if err != nil {
			return ErrorReply(err.Error())
		}
		return mustEncode(v1alpha1.KindEvaluationResponse, resp)
	default:
		return ErrorReply(fmt.Sprintf("Unknown request type: %s", kind))
	}
}

// Requests returns the evaluation requests received so far.
func (s *Server) Requests() []v1alpha1.EvaluationRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]v1alpha1.EvaluationRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// Hellos returns the number of hello requests received so far.
func (s *Server) Hellos() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hellos
}

// Serve answers requests received on a REP socket until ctx is done or the
// socket fails.
func (s *Server) Serve(ctx context.Context, socket zmq4.Socket) error {
	for {
		msg, err := socket.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		var request []byte
		for _, frame := range msg.Frames {
			request = append(request, frame...)
		}
		if err := socket.Send(zmq4.NewMsg(s.Handle(request))); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// ErrorReply encodes an error reply.
func ErrorReply(message string) []byte {
	return mustEncode(v1alpha1.KindErrorResponse, v1alpha1.ErrorResponse{Error: message})
}

// Reply encodes an arbitrary reply, for tests that need malformed answers.
func Reply(kind v1alpha1.MessageKind, body interface{}) []byte {
	return mustEncode(kind, body)
}

// StaticTransport always answers with reply.
func StaticTransport(reply []byte) oracle.Transport {
	return oracle.TransportFunc(func(context.Context, []byte) ([]byte, error) {
		return reply, nil
	})
}

// ErrUnreachable is returned by UnreachableTransport.
var ErrUnreachable = errors.New("oracle unreachable")

// UnreachableTransport fails every request as if the oracle never answered.
func UnreachableTransport() oracle.Transport {
	return oracle.TransportFunc(func(context.Context, []byte) ([]byte, error) {
		return nil, ErrUnreachable
	})
}

func mustEncode(kind v1alpha1.MessageKind, body interface{}) []byte {
	msg, err := oracle.EncodeMessage(kind, body)
	if err != nil {
		panic(err)
	}
	return msg
}
