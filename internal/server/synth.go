package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/lambdafront/lambdafront/internal/domain"
)

// Synthetic identity for the parts of a request context a real
// deployment fills from the account.
const (
	synthAccountID      = "123456789012"
	synthAPIID          = "lambdafront"
	synthTargetGroupARN = "arn:aws:elasticloadbalancing:us-east-1:123456789012:targetgroup/lambdafront/0000000000000000"
)

// Synthesizer turns plain HTTP requests into trigger event payloads in
// one configured wire shape.
type Synthesizer struct {
	format domain.Trigger
}

// NewSynthesizer creates a synthesizer for the given trigger shape. The
// format must be one of the HTTP-ingress shapes; config validation
// enforces that before a server is built.
func NewSynthesizer(format domain.Trigger) *Synthesizer {
	return &Synthesizer{format: format}
}

// Trigger returns the shape this synthesizer emits.
func (s *Synthesizer) Trigger() domain.Trigger {
	return s.format
}

// Event builds the trigger payload for one HTTP request. The body is
// passed separately so the caller controls read limits.
func (s *Synthesizer) Event(r *http.Request, body []byte) ([]byte, error) {
	switch s.format {
	case domain.TriggerHTTPV2:
		return s.eventV2(r, body)
	case domain.TriggerRest, domain.TriggerHTTPV1:
		return s.eventProxy(r, body)
	case domain.TriggerALB:
		return s.eventALB(r, body)
	}
	return nil, fmt.Errorf("unsupported synthesis format %q", s.format)
}

func (s *Synthesizer) eventV2(r *http.Request, body []byte) ([]byte, error) {
	now := time.Now()
	encoded, isB64 := encodeBody(r.Header.Get("Content-Type"), body)

	// The 2.0 shape lowercases header keys, joins repeated values with
	// commas, and carries cookies out-of-band.
	headers := make(map[string]string, len(r.Header)+1)
	for key, values := range r.Header {
		lower := strings.ToLower(key)
		if lower == "cookie" {
			continue
		}
		headers[lower] = strings.Join(values, ",")
	}
	headers["host"] = r.Host

	var cookies []string
	for _, c := range r.Cookies() {
		cookies = append(cookies, c.Name+"="+c.Value)
	}

	query := make(map[string]string)
	for key, values := range r.URL.Query() {
		query[key] = strings.Join(values, ",")
	}

	event := events.APIGatewayV2HTTPRequest{
		Version:               "2.0",
		RouteKey:              "$default",
		RawPath:               r.URL.Path,
		RawQueryString:        r.URL.RawQuery,
		Cookies:               cookies,
		Headers:               headers,
		QueryStringParameters: query,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			RouteKey:     "$default",
			AccountID:    synthAccountID,
			Stage:        "$default",
			RequestID:    requestIDFrom(r.Context()),
			APIID:        synthAPIID,
			DomainName:   r.Host,
			DomainPrefix: domainPrefix(r.Host),
			Time:         now.Format(time.RFC3339),
			TimeEpoch:    now.UnixMilli(),
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method:    r.Method,
				Path:      r.URL.Path,
				Protocol:  r.Proto,
				SourceIP:  clientIP(r),
				UserAgent: r.UserAgent(),
			},
		},
		Body:            encoded,
		IsBase64Encoded: isB64,
	}
	return json.Marshal(event)
}

// proxyEvent adds the version discriminator the shared proxy struct does
// not carry. REST payloads omit it; HTTP 1.0 payloads carry "1.0".
type proxyEvent struct {
	Version string `json:"version,omitempty"`
	events.APIGatewayProxyRequest
}

func (s *Synthesizer) eventProxy(r *http.Request, body []byte) ([]byte, error) {
	now := time.Now()
	encoded, isB64 := encodeBody(r.Header.Get("Content-Type"), body)

	headers := make(map[string]string, len(r.Header)+1)
	multiHeaders := make(map[string][]string, len(r.Header)+1)
	for key, values := range r.Header {
		headers[key] = values[len(values)-1]
		multiHeaders[key] = values
	}
	headers["Host"] = r.Host
	multiHeaders["Host"] = []string{r.Host}

	query := make(map[string]string)
	multiQuery := make(map[string][]string)
	for key, values := range r.URL.Query() {
		query[key] = values[len(values)-1]
		multiQuery[key] = values
	}

	version := ""
	if s.format == domain.TriggerHTTPV1 {
		version = "1.0"
	}

	event := proxyEvent{
		Version: version,
		APIGatewayProxyRequest: events.APIGatewayProxyRequest{
			Resource:                        "/{proxy+}",
			Path:                            r.URL.Path,
			HTTPMethod:                      r.Method,
			Headers:                         headers,
			MultiValueHeaders:               multiHeaders,
			QueryStringParameters:           query,
			MultiValueQueryStringParameters: multiQuery,
			PathParameters:                  map[string]string{"proxy": strings.TrimPrefix(r.URL.Path, "/")},
			RequestContext: events.APIGatewayProxyRequestContext{
				AccountID:    synthAccountID,
				Stage:        "local",
				DomainName:   r.Host,
				DomainPrefix: domainPrefix(r.Host),
				RequestID:    requestIDFrom(r.Context()),
				Protocol:     r.Proto,
				Identity: events.APIGatewayRequestIdentity{
					SourceIP:  clientIP(r),
					UserAgent: r.UserAgent(),
				},
				ResourcePath:     "/{proxy+}",
				Path:             r.URL.Path,
				HTTPMethod:       r.Method,
				RequestTime:      now.Format("02/Jan/2006:15:04:05 -0700"),
				RequestTimeEpoch: now.UnixMilli(),
				APIID:            synthAPIID,
			},
			Body:            encoded,
			IsBase64Encoded: isB64,
		},
	}
	return json.Marshal(event)
}

func (s *Synthesizer) eventALB(r *http.Request, body []byte) ([]byte, error) {
	encoded, isB64 := encodeBody(r.Header.Get("Content-Type"), body)

	// Load balancers lowercase header keys and deliver paths and query
	// strings still percent-encoded.
	multiHeaders := make(map[string][]string, len(r.Header)+2)
	for key, values := range r.Header {
		multiHeaders[strings.ToLower(key)] = values
	}
	multiHeaders["host"] = []string{r.Host}
	multiHeaders["x-forwarded-for"] = append(multiHeaders["x-forwarded-for"], clientIP(r))

	multiQuery := make(map[string][]string)
	for key, values := range r.URL.Query() {
		escaped := url.QueryEscape(key)
		for _, v := range values {
			multiQuery[escaped] = append(multiQuery[escaped], url.QueryEscape(v))
		}
	}

	event := events.ALBTargetGroupRequest{
		HTTPMethod:                      r.Method,
		Path:                            r.URL.EscapedPath(),
		MultiValueQueryStringParameters: multiQuery,
		MultiValueHeaders:               multiHeaders,
		RequestContext: events.ALBTargetGroupRequestContext{
			ELB: events.ELBContext{TargetGroupArn: synthTargetGroupARN},
		},
		Body:            encoded,
		IsBase64Encoded: isB64,
	}
	return json.Marshal(event)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func domainPrefix(host string) string {
	if i := strings.IndexByte(host, '.'); i > 0 {
		return host[:i]
	}
	return host
}

// clientIP prefers the first X-Forwarded-For hop, then the socket peer.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// encodeBody decides between text passthrough and base64 for the JSON
// envelope by content type.
func encodeBody(contentType string, body []byte) (string, bool) {
	if len(body) == 0 {
		return "", false
	}
	if isTextContent(contentType) {
		return string(body), false
	}
	return base64.StdEncoding.EncodeToString(body), true
}

func isTextContent(contentType string) bool {
	switch {
	case contentType == "":
		return true
	case strings.HasPrefix(contentType, "text/"),
		strings.Contains(contentType, "application/json"),
		strings.Contains(contentType, "application/xml"),
		strings.Contains(contentType, "application/javascript"),
		strings.Contains(contentType, "application/x-www-form-urlencoded"):
		return true
	}
	return false
}
