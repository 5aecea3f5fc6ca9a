// Package domain defines the canonical request and response model that
// every trigger variant is normalized into and out of, along with the
// error taxonomy shared by the decode and encode paths.
package domain

import (
	"net/http"
	"strings"
	"time"
)

// Trigger identifies the upstream integration that produced an invocation
// payload. The tag is attached to every Request at canonicalization time
// and selects the wire shape responses are serialized back into.
type Trigger string

const (
	// TriggerALB is an Application Load Balancer target-group event.
	TriggerALB Trigger = "alb"

	// TriggerRest is an API Gateway REST proxy integration event.
	TriggerRest Trigger = "rest"

	// TriggerHTTPV1 is an API Gateway HTTP API event, payload format 1.0.
	TriggerHTTPV1 Trigger = "http-v1"

	// TriggerHTTPV2 is an API Gateway HTTP API event, payload format 2.0.
	TriggerHTTPV2 Trigger = "http-v2"

	// TriggerWebSocket is an API Gateway WebSocket route event.
	TriggerWebSocket Trigger = "websocket"

	// TriggerFunctionURL is a Lambda function URL event. Function URLs
	// reuse the payload format 2.0 shape but keep their own tag.
	TriggerFunctionURL Trigger = "function-url"

	// TriggerLattice is a VPC Lattice service event.
	TriggerLattice Trigger = "lattice"
)

// Valid reports whether t names a known trigger variant.
func (t Trigger) Valid() bool {
	switch t {
	case TriggerALB, TriggerRest, TriggerHTTPV1, TriggerHTTPV2,
		TriggerWebSocket, TriggerFunctionURL, TriggerLattice:
		return true
	}
	return false
}

// Method is an HTTP request method.
type Method string

const (
	MethodGet     Method = http.MethodGet
	MethodHead    Method = http.MethodHead
	MethodPost    Method = http.MethodPost
	MethodPut     Method = http.MethodPut
	MethodPatch   Method = http.MethodPatch
	MethodDelete  Method = http.MethodDelete
	MethodConnect Method = http.MethodConnect
	MethodOptions Method = http.MethodOptions
	MethodTrace   Method = http.MethodTrace
)

// ParseMethod upper-cases s and reports whether it names a known HTTP
// method.
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToUpper(s))
	return m, m.Valid()
}

// Valid reports whether m is a known HTTP method.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodHead, MethodPost, MethodPut, MethodPatch,
		MethodDelete, MethodConnect, MethodOptions, MethodTrace:
		return true
	}
	return false
}

// Invocation carries the platform metadata for one function invocation.
// It is supplied by the invocation loop, never derived from the payload.
type Invocation struct {
	// RequestID is the platform-assigned id for this invocation.
	RequestID string

	// FunctionARN is the full ARN of the invoked function.
	FunctionARN string

	// Deadline is the instant the platform will abort the invocation.
	Deadline time.Time
}
