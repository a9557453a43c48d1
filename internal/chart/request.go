// Package chart models the render request: an object keyed by "type" whose
// other fields belong to the renderer.
package chart

import (
	"bytes"
	"encoding/json"

	"chartsrv/internal/pkg/errors"
)

// MissingTypeMessage is the fixed validation text of the render contract.
const MissingTypeMessage = "Missing required field: type"

// Request is a validated render request. Fields holds every top-level member
// including "type".
type Request struct {
	Type   string
	Fields map[string]json.RawMessage
}

// ParseRequest validates body as a render request. Anything that is not a
// JSON object with a non-empty string "type" yields a validation error with
// MissingTypeMessage; malformed JSON is treated the same as an absent body.
func ParseRequest(body []byte) (*Request, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, errors.Validation(MissingTypeMessage)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, errors.Validation(MissingTypeMessage).WithField("decode_error", err.Error())
	}

	raw, ok := fields["type"]
	if !ok {
		return nil, errors.Validation(MissingTypeMessage)
	}

	var typ string
	if err := json.Unmarshal(raw, &typ); err != nil || typ == "" {
		return nil, errors.Validation(MissingTypeMessage)
	}

	return &Request{Type: typ, Fields: fields}, nil
}

// Kind returns the request type as a Kind.
func (r *Request) Kind() Kind {
	return Kind(r.Type)
}

// MetricKind is the type bounded to known kinds, for metric labels.
func (r *Request) MetricKind() string {
	if r == nil {
		return "none"
	}
	if r.Kind().Known() {
		return r.Type
	}
	return "other"
}

// decodeInto re-assembles the object and decodes it into v.
func (r *Request) decodeInto(v any) error {
	raw, err := json.Marshal(r.Fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
