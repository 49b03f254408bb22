package oracle

import (
	"bytes"
	"context"
	"sync/atomic"

	"github.com/go-zeromq/zmq4"
	"k8s.io/klog/v2"
)

// Transport carries one request to the oracle and blocks until its reply
// arrives. Implementations follow strict call/reply alternation: there is
// never more than one outstanding request, so a Transport must not be
// shared between concurrent runs.
type Transport interface {
	RoundTrip(ctx context.Context, request []byte) ([]byte, error)
}

// TransportFunc adapts an in-process function to the Transport interface.
type TransportFunc func(ctx context.Context, request []byte) ([]byte, error)

// RoundTrip implements Transport.
func (f TransportFunc) RoundTrip(ctx context.Context, request []byte) ([]byte, error) {
	return f(ctx, request)
}

// ZMQTransport talks to the oracle over a ZeroMQ REQ socket.
type ZMQTransport struct {
	endpoint string
	socket   zmq4.Socket
	inFlight atomic.Bool
}

var _ Transport = &ZMQTransport{}

// DialZMQ connects a REQ socket to endpoint, e.g. "tcp://localhost:5556".
// The socket lives as long as ctx: cancelling ctx aborts any pending
// request with a TransportError.
func DialZMQ(ctx context.Context, endpoint string) (*ZMQTransport, error) {
	logger := klog.FromContext(ctx)

	socket := zmq4.NewReq(ctx)
	if err := socket.Dial(endpoint); err != nil {
		_ = socket.Close()
		return nil, &TransportError{Op: "dial", Endpoint: endpoint, Err: err}
	}
	logger.V(4).Info("connected to oracle", "endpoint", endpoint)

	return &ZMQTransport{endpoint: endpoint, socket: socket}, nil
}

// RoundTrip implements Transport.
func (t *ZMQTransport) RoundTrip(ctx context.Context, request []byte) ([]byte, error) {
	if !t.inFlight.CompareAndSwap(false, true) {
		return nil, &TransportError{Op: "send", Endpoint: t.endpoint, Err: ErrRequestInFlight}
	}
	defer t.inFlight.Store(false)

	logger := klog.FromContext(ctx)
	logger.V(6).Info("sending request", "endpoint", t.endpoint, "bytes", len(request))

	if err := t.socket.Send(zmq4.NewMsg(request)); err != nil {
		return nil, &TransportError{Op: "send", Endpoint: t.endpoint, Err: err}
	}
	reply, err := t.socket.Recv()
	if err != nil {
		return nil, &TransportError{Op: "receive", Endpoint: t.endpoint, Err: err}
	}

	payload := bytes.Join(reply.Frames, nil)
	logger.V(6).Info("received reply", "endpoint", t.endpoint, "bytes", len(payload))
	return payload, nil
}

// Endpoint returns the address the transport is connected to.
func (t *ZMQTransport) Endpoint() string {
	return t.endpoint
}

// Close releases the socket.
func (t *ZMQTransport) Close() error {
	return t.socket.Close()
}
