package oracle

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/auit-project/layoutsolver/apis/layout/v1alpha1"
)

var errEmptyMessage = errors.New("empty message")

// EncodeMessage frames body as a wire message: the kind character followed
// by the JSON encoding of body.
func EncodeMessage(kind v1alpha1.MessageKind, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding %s message: %w", kind, err)
	}
	msg := make([]byte, 0, len(payload)+1)
	msg = append(msg, byte(kind))
	return append(msg, payload...), nil
}

// SplitMessage returns the kind and the JSON body of a wire message. The
// body may be empty.
func SplitMessage(msg []byte) (v1alpha1.MessageKind, []byte, error) {
	if len(msg) == 0 {
		return 0, nil, errEmptyMessage
	}
	return v1alpha1.MessageKind(msg[0]), msg[1:], nil
}

// DecodeBody unmarshals a message body into v. An empty body leaves v untouched.
func DecodeBody(body []byte, v interface{}) error {
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}
