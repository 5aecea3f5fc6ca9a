package codec

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lambdafront/lambdafront/internal/domain"
	"github.com/lambdafront/lambdafront/internal/trigger"
)

// latticeCodec handles VPC Lattice service events. Lattice has no stage
// or path parameters; query parameters arrive single-valued and response
// headers are always serialized as value arrays.
type latticeCodec struct{}

func (latticeCodec) Canonicalize(ev *trigger.Event, opts Options) (*domain.Request, error) {
	src := ev.Lattice

	method, ok := domain.ParseMethod(src.HTTPMethod)
	if !ok {
		return nil, domain.ErrMalformedPayload(fmt.Sprintf("unknown HTTP method %q", src.HTTPMethod)).
			WithField("httpMethod").
			WithTrigger(ev.Trigger)
	}

	body, err := decodeBody(src.Body, src.IsBase64Encoded, ev.Trigger)
	if err != nil {
		return nil, err
	}

	return &domain.Request{
		Method:     method,
		Path:       src.Path,
		RawPath:    src.Path,
		Query:      queryFromSingle(src.QueryStringParameters),
		Header:     headerFromMulti(src.Headers),
		Body:       body,
		WasBase64:  src.IsBase64Encoded,
		PathParams: map[string]string{},
		Trigger:    ev.Trigger,
		Context:    &domain.LatticeContext{LatticeRequestContext: src.RequestContext},
	}, nil
}

func (latticeCodec) Specialize(resp *domain.Response) ([]byte, error) {
	body, b64 := encodeBody(resp)
	header := responseHeader(resp)

	out := trigger.LatticeResponse{
		StatusCode:        resp.StatusCode,
		StatusDescription: fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		Headers:           map[string][]string(header),
		Body:              body,
		IsBase64Encoded:   b64,
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, domain.ErrResponseEncode("marshal service response").
			WithTrigger(domain.TriggerLattice).
			WithCause(err)
	}
	return data, nil
}
