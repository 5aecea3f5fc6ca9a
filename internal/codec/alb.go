package codec

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aws/aws-lambda-go/events"

	"github.com/lambdafront/lambdafront/internal/domain"
	"github.com/lambdafront/lambdafront/internal/trigger"
)

// albCodec handles Application Load Balancer target-group events. ALB is
// the one trigger that delivers paths and query strings still
// percent-encoded, and the one whose header shape depends on a target
// group attribute: exactly one of the single- and multi-value maps is
// populated.
type albCodec struct{}

func (albCodec) Canonicalize(ev *trigger.Event, opts Options) (*domain.Request, error) {
	src := ev.ALB

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

	var query url.Values
	if len(src.MultiValueQueryStringParameters) > 0 {
		query = make(url.Values, len(src.MultiValueQueryStringParameters))
		for k, vs := range src.MultiValueQueryStringParameters {
			dk := percentDecode(k)
			for _, v := range vs {
				query.Add(dk, percentDecode(v))
			}
		}
	} else {
		query = make(url.Values, len(src.QueryStringParameters))
		for k, v := range src.QueryStringParameters {
			query.Add(percentDecode(k), percentDecode(v))
		}
	}

	var header http.Header
	if len(src.MultiValueHeaders) > 0 {
		header = headerFromMulti(src.MultiValueHeaders)
	} else {
		header = headerFromSingle(src.Headers)
	}

	return &domain.Request{
		Method:     method,
		Path:       percentDecode(src.Path),
		RawPath:    src.Path,
		Query:      query,
		Header:     header,
		Body:       body,
		WasBase64:  src.IsBase64Encoded,
		PathParams: map[string]string{},
		Trigger:    ev.Trigger,
		Context:    &domain.ALBContext{ALBTargetGroupRequestContext: src.RequestContext},
	}, nil
}

func (albCodec) Specialize(resp *domain.Response) ([]byte, error) {
	body, b64 := encodeBody(resp)
	header := responseHeader(resp)

	out := events.ALBTargetGroupResponse{
		StatusCode:        resp.StatusCode,
		StatusDescription: fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		Headers:           lastValue(header),
		MultiValueHeaders: map[string][]string(header),
		Body:              body,
		IsBase64Encoded:   b64,
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, domain.ErrResponseEncode("marshal target-group response").
			WithTrigger(domain.TriggerALB).
			WithCause(err)
	}
	return data, nil
}
