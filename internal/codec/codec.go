// Package codec converts decoded trigger events into the canonical
// request model and canonical responses back into each trigger's wire
// shape.
//
// The flow through an invocation:
//   - raw payload → trigger.Decode() → typed event
//   - typed event → Canonicalize() → domain.Request
//   - domain.Response + remembered tag → Specialize() → wire JSON
//
// Single-valued header and query maps are lifted into the canonical
// multimaps on the way in. On the way out the remembered trigger tag
// alone decides the output shape; the response data is never inspected to
// guess one.
package codec

import (
	"github.com/lambdafront/lambdafront/internal/domain"
	"github.com/lambdafront/lambdafront/internal/trigger"
)

// Options configures canonicalization.
type Options struct {
	// StripStage removes the leading /{stage} path segment when it
	// matches the trigger's deployment stage. Off by default.
	StripStage bool
}

// Codec converts one trigger family between its wire shape and the
// canonical model.
type Codec interface {
	// Canonicalize lifts a decoded event into the canonical request.
	Canonicalize(ev *trigger.Event, opts Options) (*domain.Request, error)

	// Specialize serializes a response into the family's wire shape.
	Specialize(resp *domain.Response) ([]byte, error)
}

// codecs is the closed registry. Every trigger tag resolves to exactly
// one codec; REST and HTTP 1.0 share a shape, as do HTTP 2.0 and
// function URLs.
var codecs = map[domain.Trigger]Codec{
	domain.TriggerALB:         &albCodec{},
	domain.TriggerRest:        &gatewayCodec{tag: domain.TriggerRest},
	domain.TriggerHTTPV1:      &gatewayCodec{tag: domain.TriggerHTTPV1},
	domain.TriggerHTTPV2:      &httpCodec{tag: domain.TriggerHTTPV2},
	domain.TriggerFunctionURL: &httpCodec{tag: domain.TriggerFunctionURL},
	domain.TriggerWebSocket:   &webSocketCodec{},
	domain.TriggerLattice:     &latticeCodec{},
}

// ForTrigger returns the codec registered for tag.
func ForTrigger(tag domain.Trigger) (Codec, bool) {
	c, ok := codecs[tag]
	return c, ok
}

// Canonicalize converts a decoded trigger event into the canonical
// request. The variant tag and raw request context are carried on the
// request for the response path.
func Canonicalize(ev *trigger.Event, opts Options) (*domain.Request, error) {
	c, ok := ForTrigger(ev.Trigger)
	if !ok {
		return nil, domain.ErrDecode("no codec registered for trigger").WithTrigger(ev.Trigger)
	}
	return c.Canonicalize(ev, opts)
}

// Specialize serializes a response into the wire shape of the trigger
// that produced the originating request. Status codes outside [100, 599]
// are rejected before any variant encoding runs.
func Specialize(resp *domain.Response, tag domain.Trigger) ([]byte, error) {
	if resp.StatusCode < 100 || resp.StatusCode > 599 {
		return nil, domain.ErrResponseEncode("status code out of valid HTTP range").
			WithField("statusCode").
			WithTrigger(tag)
	}
	c, ok := ForTrigger(tag)
	if !ok {
		return nil, domain.ErrResponseEncode("no codec registered for trigger").WithTrigger(tag)
	}
	return c.Specialize(resp)
}
