package trigger

import (
	"encoding/json"
	"fmt"

	"github.com/lambdafront/lambdafront/internal/domain"
)

// LatticeRequest is a VPC Lattice service event, payload format version
// 2.0. The events package carries no Lattice types, so the wire shape is
// defined here. Query parameters arrive single-valued; headers arrive as
// value arrays, though single string values are accepted and lifted.
type LatticeRequest struct {
	Version               string                       `json:"version,omitempty"`
	Path                  string                       `json:"path"`
	HTTPMethod            string                       `json:"httpMethod"`
	Headers               HeaderValues                 `json:"headers,omitempty"`
	QueryStringParameters map[string]string            `json:"queryStringParameters,omitempty"`
	RequestContext        domain.LatticeRequestContext `json:"requestContext"`
	Body                  string                       `json:"body,omitempty"`
	IsBase64Encoded       bool                         `json:"isBase64Encoded"`
}

// LatticeResponse is the wire shape returned to a VPC Lattice service.
// Response headers are always serialized as value arrays.
type LatticeResponse struct {
	IsBase64Encoded   bool                `json:"isBase64Encoded"`
	StatusCode        int                 `json:"statusCode"`
	StatusDescription string              `json:"statusDescription,omitempty"`
	Headers           map[string][]string `json:"headers,omitempty"`
	Body              string              `json:"body,omitempty"`
}

// HeaderValues decodes a headers object whose values are either a single
// string or an array of strings, lifting single values into one-element
// slices.
type HeaderValues map[string][]string

// UnmarshalJSON implements json.Unmarshaler.
func (h *HeaderValues) UnmarshalJSON(data []byte) error {
	var multi map[string][]string
	if err := json.Unmarshal(data, &multi); err == nil {
		*h = multi
		return nil
	}

	var mixed map[string]json.RawMessage
	if err := json.Unmarshal(data, &mixed); err != nil {
		return err
	}
	out := make(HeaderValues, len(mixed))
	for k, v := range mixed {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[k] = []string{s}
			continue
		}
		var vs []string
		if err := json.Unmarshal(v, &vs); err != nil {
			return fmt.Errorf("header %q: value is neither string nor string array", k)
		}
		out[k] = vs
	}
	*h = out
	return nil
}
