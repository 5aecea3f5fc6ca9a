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

// gatewayCodec handles the proxy-integration shape shared by API Gateway
// REST APIs and HTTP APIs in payload format 1.0. The two differ only in
// the version discriminator, so one codec serves both tags.
type gatewayCodec struct {
	tag domain.Trigger
}

func (c *gatewayCodec) Canonicalize(ev *trigger.Event, opts Options) (*domain.Request, error) {
	src := ev.Gateway

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
		query = queryFromMulti(src.MultiValueQueryStringParameters)
	} else {
		query = queryFromSingle(src.QueryStringParameters)
	}

	var header http.Header
	if len(src.MultiValueHeaders) > 0 {
		header = headerFromMulti(src.MultiValueHeaders)
	} else {
		header = headerFromSingle(src.Headers)
	}

	params := make(map[string]string, len(src.PathParameters))
	for k, v := range src.PathParameters {
		params[k] = v
	}

	path := src.Path
	if opts.StripStage {
		path = stripStage(path, src.RequestContext.Stage)
	}

	return &domain.Request{
		Method:     method,
		Path:       path,
		RawPath:    src.Path,
		Query:      query,
		Header:     header,
		Body:       body,
		WasBase64:  src.IsBase64Encoded,
		PathParams: params,
		Trigger:    ev.Trigger,
		Context:    &domain.GatewayContext{APIGatewayProxyRequestContext: src.RequestContext},
	}, nil
}

func (c *gatewayCodec) Specialize(resp *domain.Response) ([]byte, error) {
	body, b64 := encodeBody(resp)
	header := responseHeader(resp)

	out := events.APIGatewayProxyResponse{
		StatusCode:        resp.StatusCode,
		Headers:           lastValue(header),
		MultiValueHeaders: map[string][]string(header),
		Body:              body,
		IsBase64Encoded:   b64,
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, domain.ErrResponseEncode("marshal proxy response").
			WithTrigger(c.tag).
			WithCause(err)
	}
	return data, nil
}
