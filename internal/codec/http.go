package codec

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/lambdafront/lambdafront/internal/domain"
	"github.com/lambdafront/lambdafront/internal/trigger"
)

// httpCodec handles HTTP API payload format 2.0 events, which function
// URLs reuse. The 2.0 shape moves the method into the request context,
// carries the query string raw, and splits cookies out of the headers in
// both directions.
type httpCodec struct {
	tag domain.Trigger
}

func (c *httpCodec) Canonicalize(ev *trigger.Event, opts Options) (*domain.Request, error) {
	src := ev.HTTP

	method, ok := domain.ParseMethod(src.RequestContext.HTTP.Method)
	if !ok {
		return nil, domain.ErrMalformedPayload(fmt.Sprintf("unknown HTTP method %q", src.RequestContext.HTTP.Method)).
			WithField("requestContext.http.method").
			WithTrigger(ev.Trigger)
	}

	body, err := decodeBody(src.Body, src.IsBase64Encoded, ev.Trigger)
	if err != nil {
		return nil, err
	}

	// The raw query string is authoritative: parsing it is the only way
	// duplicate keys survive, since the single-valued map pre-joins them.
	var query url.Values
	if src.RawQueryString != "" {
		if q, err := url.ParseQuery(src.RawQueryString); err == nil {
			query = q
		}
	}
	if query == nil {
		query = queryFromSingle(src.QueryStringParameters)
	}

	header := headerFromSingle(src.Headers)
	if len(src.Cookies) > 0 {
		header.Add("Cookie", strings.Join(src.Cookies, "; "))
	}

	params := make(map[string]string, len(src.PathParameters))
	for k, v := range src.PathParameters {
		params[k] = v
	}

	path := src.RawPath
	if path == "" {
		path = src.RequestContext.HTTP.Path
	}
	if opts.StripStage {
		path = stripStage(path, src.RequestContext.Stage)
	}

	return &domain.Request{
		Method:     method,
		Path:       path,
		RawPath:    src.RawPath,
		Query:      query,
		RawQuery:   src.RawQueryString,
		Header:     header,
		Body:       body,
		WasBase64:  src.IsBase64Encoded,
		PathParams: params,
		Trigger:    ev.Trigger,
		Context:    &domain.HTTPContext{APIGatewayV2HTTPRequestContext: src.RequestContext},
	}, nil
}

func (c *httpCodec) Specialize(resp *domain.Response) ([]byte, error) {
	body, b64 := encodeBody(resp)
	header := responseHeader(resp)

	// The 2.0 shape owns cookies: Set-Cookie values move into the
	// dedicated array and out of the collapsed header map, never both.
	var cookies []string
	for k, vs := range header {
		if http.CanonicalHeaderKey(k) == "Set-Cookie" {
			cookies = append(cookies, vs...)
			delete(header, k)
		}
	}

	out := events.APIGatewayV2HTTPResponse{
		StatusCode:      resp.StatusCode,
		Headers:         lastValue(header),
		Cookies:         cookies,
		Body:            body,
		IsBase64Encoded: b64,
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, domain.ErrResponseEncode("marshal payload format 2.0 response").
			WithTrigger(c.tag).
			WithCause(err)
	}
	return data, nil
}
