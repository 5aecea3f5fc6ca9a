package domain

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// BodyDecoder parses raw body bytes into v. The default is json.Unmarshal;
// handlers may supply any other decoder through BindWith.
type BodyDecoder func(data []byte, v any) error

// Request is the canonical representation of one trigger invocation. It is
// built once by the canonicalizer, owned by that invocation for its whole
// processing window, and never shared across invocations.
//
// Header and Query are multimaps: duplicate keys keep every value, in the
// order the source payload supplied them.
type Request struct {
	// Method is the HTTP verb. WebSocket events carry no verb and default
	// to GET.
	Method Method

	// Path is the decoded request path, stage-stripped when the policy is
	// enabled. RawPath is the path exactly as it appeared on the wire.
	Path    string
	RawPath string

	// Query holds the query parameters. RawQuery is the undecoded query
	// string for variants that provide one.
	Query    url.Values
	RawQuery string

	// Header holds the request headers.
	Header http.Header

	// Body is the request body, already decoded when the payload arrived
	// base64-encoded. WasBase64 records the original encoding.
	Body      []byte
	WasBase64 bool

	// PathParams maps gateway route placeholders to their matched values.
	// Empty, never nil, for variants without path parameters.
	PathParams map[string]string

	// Trigger is the variant tag, set once at canonicalization.
	Trigger Trigger

	// Context is the raw per-trigger request context, untouched.
	Context TriggerContext

	// Invocation is the platform metadata attached by the invocation
	// loop, nil when running outside one.
	Invocation *Invocation

	// Decoder, when set, replaces the JSON default used by Bind. The
	// invocation loop installs it from its own configuration.
	Decoder BodyDecoder
}

// QueryValue returns the first value for key and reports whether the key
// is present at all.
func (r *Request) QueryValue(key string) (string, bool) {
	vs := r.Query[key]
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// QueryValues returns every value for key in source order, nil when the
// key is absent.
func (r *Request) QueryValues(key string) []string {
	return r.Query[key]
}

// PathParam returns the matched value for a gateway route placeholder.
func (r *Request) PathParam(key string) (string, bool) {
	v, ok := r.PathParams[key]
	return v, ok
}

// InvocationMetadata returns the platform invocation metadata, reporting
// false when no invocation loop attached any.
func (r *Request) InvocationMetadata() (Invocation, bool) {
	if r.Invocation == nil {
		return Invocation{}, false
	}
	return *r.Invocation, true
}

// Bind decodes the request body into v with the request's Decoder, or as
// JSON when none is installed. Failures come back as a payload-decode
// Error for the handler to act on; they are never fatal to the
// invocation.
func (r *Request) Bind(v any) error {
	return r.BindWith(v, r.Decoder)
}

// BindWith decodes the request body into v with the supplied decoder, or
// JSON when dec is nil.
func (r *Request) BindWith(v any, dec BodyDecoder) error {
	if dec == nil {
		dec = json.Unmarshal
	}
	if err := dec(r.Body, v); err != nil {
		return ErrPayloadDecode("decode request body").
			WithTrigger(r.Trigger).
			WithCause(err)
	}
	return nil
}

// The accessors below surface request-context fields that only some
// trigger families carry. The boolean reports whether the current variant
// defines the field; no accessor fabricates a default for a variant that
// lacks one.

// Stage returns the deployment stage for gateway-backed variants.
func (r *Request) Stage() (string, bool) {
	switch c := r.Context.(type) {
	case *GatewayContext:
		return c.Stage, true
	case *HTTPContext:
		return c.Stage, true
	case *WebSocketContext:
		return c.Stage, true
	}
	return "", false
}

// SourceIP returns the client address recorded by the trigger.
func (r *Request) SourceIP() (string, bool) {
	switch c := r.Context.(type) {
	case *GatewayContext:
		return c.Identity.SourceIP, true
	case *HTTPContext:
		return c.HTTP.SourceIP, true
	case *WebSocketContext:
		return c.Identity.SourceIP, true
	}
	return "", false
}

// DomainName returns the domain the trigger received the request on.
func (r *Request) DomainName() (string, bool) {
	switch c := r.Context.(type) {
	case *GatewayContext:
		return c.DomainName, true
	case *HTTPContext:
		return c.DomainName, true
	case *WebSocketContext:
		return c.DomainName, true
	}
	return "", false
}

// TriggerRequestID returns the trigger's own request id, distinct from the
// platform invocation id carried in Invocation.
func (r *Request) TriggerRequestID() (string, bool) {
	switch c := r.Context.(type) {
	case *GatewayContext:
		return c.RequestID, true
	case *HTTPContext:
		return c.RequestID, true
	case *WebSocketContext:
		return c.RequestID, true
	}
	return "", false
}

// ConnectionID returns the WebSocket connection id.
func (r *Request) ConnectionID() (string, bool) {
	if c, ok := r.Context.(*WebSocketContext); ok {
		return c.ConnectionID, true
	}
	return "", false
}

// RouteKey returns the route key for WebSocket and HTTP API 2.0 events.
func (r *Request) RouteKey() (string, bool) {
	switch c := r.Context.(type) {
	case *HTTPContext:
		return c.RouteKey, true
	case *WebSocketContext:
		return c.RouteKey, true
	}
	return "", false
}

// EventType returns CONNECT, MESSAGE, or DISCONNECT for WebSocket events.
func (r *Request) EventType() (string, bool) {
	if c, ok := r.Context.(*WebSocketContext); ok {
		return c.EventType, true
	}
	return "", false
}

// Authorizer returns the authorizer claims for REST, HTTP 1.0, and
// WebSocket events. HTTP 2.0 events carry a typed authorizer description
// instead; reach it by asserting *HTTPContext.
func (r *Request) Authorizer() (map[string]any, bool) {
	switch c := r.Context.(type) {
	case *GatewayContext:
		if c.APIGatewayProxyRequestContext.Authorizer != nil {
			return c.APIGatewayProxyRequestContext.Authorizer, true
		}
	case *WebSocketContext:
		if m, ok := c.APIGatewayWebsocketProxyRequestContext.Authorizer.(map[string]any); ok {
			return m, true
		}
	}
	return nil, false
}

// TargetGroupARN returns the ELB or Lattice target group ARN.
func (r *Request) TargetGroupARN() (string, bool) {
	switch c := r.Context.(type) {
	case *ALBContext:
		return c.ELB.TargetGroupArn, true
	case *LatticeContext:
		return c.LatticeRequestContext.TargetGroupARN, true
	}
	return "", false
}
