package codec

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/lambdafront/lambdafront/internal/domain"
	"github.com/lambdafront/lambdafront/internal/trigger"
)

// webSocketCodec handles API Gateway WebSocket route events. Frames carry
// no HTTP verb, so the canonical method is a synthetic GET, and the
// integration response channel supports no headers; any the handler sets
// are dropped on the way out.
type webSocketCodec struct{}

func (webSocketCodec) Canonicalize(ev *trigger.Event, opts Options) (*domain.Request, error) {
	src := ev.WebSocket

	method := domain.MethodGet
	if src.HTTPMethod != "" {
		m, ok := domain.ParseMethod(src.HTTPMethod)
		if !ok {
			return nil, domain.ErrMalformedPayload(fmt.Sprintf("unknown HTTP method %q", src.HTTPMethod)).
				WithField("httpMethod").
				WithTrigger(ev.Trigger)
		}
		method = m
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
	if path == "" {
		path = "/"
	}
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
		Context:    &domain.WebSocketContext{APIGatewayWebsocketProxyRequestContext: src.RequestContext},
	}, nil
}

func (webSocketCodec) Specialize(resp *domain.Response) ([]byte, error) {
	body, b64 := encodeBody(resp)

	out := trigger.WebSocketResponse{
		StatusCode:      resp.StatusCode,
		Body:            body,
		IsBase64Encoded: b64,
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, domain.ErrResponseEncode("marshal route response").
			WithTrigger(domain.TriggerWebSocket).
			WithCause(err)
	}
	return data, nil
}
