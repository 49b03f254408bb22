package oracle

import (
	"errors"
	"fmt"
)

// ErrRequestInFlight is returned when a transport is asked to send a request
// while the reply of the previous one has not been received yet.
var ErrRequestInFlight = errors.New("a request is already waiting for its reply")

// OracleError reports that the oracle received the request and answered with
// an error reply.
type OracleError struct {
	Message string
}

func (e *OracleError) Error() string {
	return "oracle error: " + e.Message
}

// ProtocolError reports a reply that does not match what was asked for: an
// unexpected kind, a malformed body or a shape that disagrees with the
// configured objective and constraint counts.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.Reason, e.Err)
	}
	return "protocol error: " + e.Reason
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

func protocolErrorf(format string, args ...interface{}) *ProtocolError {
	return &ProtocolError{Reason: fmt.Sprintf(format, args...)}
}

// TransportError reports that the request never got an answer: the oracle
// could not be reached, the connection dropped, or the transport was misused.
type TransportError struct {
	Op       string
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("transport %s %s: %v", e.Op, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
