package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
)

// wireResponse is the union of the response fields every HTTP-ingress
// shape can carry. Absent fields unmarshal to their zero values.
type wireResponse struct {
	StatusCode        int                 `json:"statusCode"`
	StatusDescription string              `json:"statusDescription,omitempty"`
	Headers           map[string]string   `json:"headers,omitempty"`
	MultiValueHeaders map[string][]string `json:"multiValueHeaders,omitempty"`
	Cookies           []string            `json:"cookies,omitempty"`
	Body              string              `json:"body,omitempty"`
	IsBase64Encoded   bool                `json:"isBase64Encoded,omitempty"`
}

// writeWireResponse parses a function's wire-shaped response payload and
// replays it onto the HTTP response. A payload without a status code is
// reported as a bad gateway rather than silently defaulted.
func writeWireResponse(w http.ResponseWriter, payload []byte) error {
	var resp wireResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return fmt.Errorf("parse function response: %w", err)
	}
	if resp.StatusCode == 0 {
		return fmt.Errorf("function response has no status code")
	}

	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(resp.Body)
		if err != nil {
			return fmt.Errorf("decode base64 response body: %w", err)
		}
		body = decoded
	}

	// Multi-value headers are authoritative when present; the single map
	// only carries the last value per key.
	if len(resp.MultiValueHeaders) > 0 {
		for key, values := range resp.MultiValueHeaders {
			for _, v := range values {
				w.Header().Add(key, v)
			}
		}
	} else {
		for key, v := range resp.Headers {
			w.Header().Set(key, v)
		}
	}
	for _, c := range resp.Cookies {
		w.Header().Add("Set-Cookie", c)
	}

	w.WriteHeader(resp.StatusCode)
	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			return fmt.Errorf("write response body: %w", err)
		}
	}
	return nil
}
