// Package trigger recognizes which platform integration produced a raw
// invocation payload and deserializes it into that integration's typed
// event. Recognition is structural and runs in a fixed priority order;
// the full typed decode happens only after a variant is identified.
package trigger

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/lambdafront/lambdafront/internal/domain"
)

// Event is a decoded trigger payload: the variant tag plus exactly one
// non-nil variant struct.
type Event struct {
	Trigger domain.Trigger

	ALB       *events.ALBTargetGroupRequest
	Gateway   *events.APIGatewayProxyRequest // REST and HTTP 1.0
	HTTP      *events.APIGatewayV2HTTPRequest
	WebSocket *events.APIGatewayWebsocketProxyRequest
	Lattice   *LatticeRequest
}

// probe is the minimal shape used for structural recognition.
type probe struct {
	Version        string  `json:"version"`
	RawPath        *string `json:"rawPath"`
	Path           *string `json:"path"`
	HTTPMethod     *string `json:"httpMethod"`
	RequestContext struct {
		ELB               *json.RawMessage `json:"elb"`
		ConnectionID      string           `json:"connectionId"`
		EventType         string           `json:"eventType"`
		ServiceNetworkARN string           `json:"serviceNetworkArn"`
		ServiceARN        string           `json:"serviceArn"`
		TargetGroupARN    string           `json:"targetGroupArn"`
		DomainName        string           `json:"domainName"`
	} `json:"requestContext"`
}

// Decode identifies the trigger that produced raw and deserializes the
// payload into that trigger's event type. Recognition order: WebSocket,
// ALB, VPC Lattice, HTTP 2.0 / function URL, then HTTP 1.0 / REST (which
// share field names and are split by the version discriminator). A payload
// matching no shape fails with a decode error; a recognized shape whose
// fields do not deserialize fails with a malformed-payload error naming
// the field.
func Decode(raw []byte) (*Event, error) {
	var p probe
	if err := json.Unmarshal(raw, &p); err != nil {
		// A type mismatch on a nested field still populates the other
		// markers; only a payload that is not an object at all is
		// unrecognizable outright.
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) || typeErr.Field == "" {
			return nil, domain.ErrDecode("payload is not a JSON object").WithCause(err)
		}
	}

	switch {
	case p.RequestContext.ConnectionID != "" && p.RequestContext.EventType != "":
		return decodeWebSocket(raw)

	case p.RequestContext.ELB != nil:
		return decodeALB(raw)

	case p.RequestContext.ServiceNetworkARN != "" ||
		p.RequestContext.ServiceARN != "" ||
		p.RequestContext.TargetGroupARN != "":
		return decodeLattice(raw)

	case p.Version == "2.0" && p.RawPath != nil:
		return decodeHTTP(raw, p.RequestContext.DomainName)

	case p.HTTPMethod != nil && p.Path != nil:
		return decodeGateway(raw, p.Version)
	}

	return nil, domain.ErrDecode("payload matches no known trigger shape")
}

func decodeWebSocket(raw []byte) (*Event, error) {
	var ev events.APIGatewayWebsocketProxyRequest
	if err := unmarshalEvent(raw, &ev, domain.TriggerWebSocket); err != nil {
		return nil, err
	}
	return &Event{Trigger: domain.TriggerWebSocket, WebSocket: &ev}, nil
}

func decodeALB(raw []byte) (*Event, error) {
	var ev events.ALBTargetGroupRequest
	if err := unmarshalEvent(raw, &ev, domain.TriggerALB); err != nil {
		return nil, err
	}
	return &Event{Trigger: domain.TriggerALB, ALB: &ev}, nil
}

func decodeLattice(raw []byte) (*Event, error) {
	var ev LatticeRequest
	if err := unmarshalEvent(raw, &ev, domain.TriggerLattice); err != nil {
		return nil, err
	}
	return &Event{Trigger: domain.TriggerLattice, Lattice: &ev}, nil
}

func decodeHTTP(raw []byte, domainName string) (*Event, error) {
	tag := domain.TriggerHTTPV2
	if strings.Contains(domainName, ".lambda-url.") {
		tag = domain.TriggerFunctionURL
	}
	var ev events.APIGatewayV2HTTPRequest
	if err := unmarshalEvent(raw, &ev, tag); err != nil {
		return nil, err
	}
	return &Event{Trigger: tag, HTTP: &ev}, nil
}

func decodeGateway(raw []byte, version string) (*Event, error) {
	tag := domain.TriggerRest
	if version == "1.0" {
		tag = domain.TriggerHTTPV1
	}
	var ev events.APIGatewayProxyRequest
	if err := unmarshalEvent(raw, &ev, tag); err != nil {
		return nil, err
	}
	return &Event{Trigger: tag, Gateway: &ev}, nil
}

// WebSocketResponse is the wire shape returned for a WebSocket route
// integration. Most gateway configurations ignore headers on this
// channel, so the shape carries none.
type WebSocketResponse struct {
	StatusCode      int    `json:"statusCode"`
	Body            string `json:"body,omitempty"`
	IsBase64Encoded bool   `json:"isBase64Encoded,omitempty"`
}

func unmarshalEvent(raw []byte, v any, tag domain.Trigger) error {
	err := json.Unmarshal(raw, v)
	if err == nil {
		return nil
	}
	e := domain.ErrMalformedPayload("deserialize recognized payload").
		WithTrigger(tag).
		WithCause(err)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		e = e.WithField(typeErr.Field)
	}
	return e
}
