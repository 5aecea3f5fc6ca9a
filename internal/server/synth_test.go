package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/lambdafront/lambdafront/internal/domain"
)

func TestSynthesize_HTTPV2(t *testing.T) {
	synth := NewSynthesizer(domain.TriggerHTTPV2)

	body := []byte(`{"sku":"A1"}`)
	r := httptest.NewRequest("POST", "http://api.localtest.me/widgets?tag=a&tag=b", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Add("Accept", "application/json")
	r.Header.Add("Accept", "text/plain")
	r.Header.Set("Cookie", "session=abc; theme=dark")
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	r = r.WithContext(context.WithValue(r.Context(), RequestIDKey, "req-42"))

	payload, err := synth.Event(r, body)
	if err != nil {
		t.Fatalf("Event() error = %v", err)
	}

	var ev events.APIGatewayV2HTTPRequest
	if err := json.Unmarshal(payload, &ev); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	if ev.Version != "2.0" {
		t.Errorf("Version = %q, want %q", ev.Version, "2.0")
	}
	if ev.RawPath != "/widgets" {
		t.Errorf("RawPath = %q, want %q", ev.RawPath, "/widgets")
	}
	if ev.RawQueryString != "tag=a&tag=b" {
		t.Errorf("RawQueryString = %q, want %q", ev.RawQueryString, "tag=a&tag=b")
	}
	if got := ev.QueryStringParameters["tag"]; got != "a,b" {
		t.Errorf("query tag = %q, want comma-joined %q", got, "a,b")
	}
	if got := ev.Headers["content-type"]; got != "application/json" {
		t.Errorf("headers[content-type] = %q, want lowercased key", got)
	}
	if got := ev.Headers["accept"]; got != "application/json,text/plain" {
		t.Errorf("headers[accept] = %q, want joined values", got)
	}
	if got := ev.Headers["host"]; got != "api.localtest.me" {
		t.Errorf("headers[host] = %q, want %q", got, "api.localtest.me")
	}
	if _, ok := ev.Headers["cookie"]; ok {
		t.Error("cookie header should move to the cookies list")
	}
	wantCookies := []string{"session=abc", "theme=dark"}
	if len(ev.Cookies) != len(wantCookies) {
		t.Fatalf("Cookies = %v, want %v", ev.Cookies, wantCookies)
	}
	for i, want := range wantCookies {
		if ev.Cookies[i] != want {
			t.Errorf("Cookies[%d] = %q, want %q", i, ev.Cookies[i], want)
		}
	}
	if ev.RequestContext.HTTP.Method != "POST" {
		t.Errorf("context method = %q, want POST", ev.RequestContext.HTTP.Method)
	}
	if ev.RequestContext.HTTP.SourceIP != "203.0.113.9" {
		t.Errorf("SourceIP = %q, want the first forwarded hop", ev.RequestContext.HTTP.SourceIP)
	}
	if ev.RequestContext.Stage != "$default" {
		t.Errorf("Stage = %q, want $default", ev.RequestContext.Stage)
	}
	if ev.RequestContext.RequestID != "req-42" {
		t.Errorf("RequestID = %q, want the middleware's id", ev.RequestContext.RequestID)
	}
	if ev.RequestContext.DomainPrefix != "api" {
		t.Errorf("DomainPrefix = %q, want %q", ev.RequestContext.DomainPrefix, "api")
	}
	if ev.IsBase64Encoded {
		t.Error("JSON body should not be base64 encoded")
	}
	if ev.Body != `{"sku":"A1"}` {
		t.Errorf("Body = %q", ev.Body)
	}
}

func TestSynthesize_BinaryBody(t *testing.T) {
	synth := NewSynthesizer(domain.TriggerHTTPV2)
	raw := []byte{0x89, 0x50, 0x4e, 0x47}

	r := httptest.NewRequest("POST", "http://localhost/upload", bytes.NewReader(raw))
	r.Header.Set("Content-Type", "application/octet-stream")

	payload, err := synth.Event(r, raw)
	if err != nil {
		t.Fatalf("Event() error = %v", err)
	}

	var ev events.APIGatewayV2HTTPRequest
	if err := json.Unmarshal(payload, &ev); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if !ev.IsBase64Encoded {
		t.Fatal("binary body should be base64 encoded")
	}
	if want := base64.StdEncoding.EncodeToString(raw); ev.Body != want {
		t.Errorf("Body = %q, want %q", ev.Body, want)
	}
}

func TestSynthesize_ProxyVersions(t *testing.T) {
	tests := []struct {
		name    string
		format  domain.Trigger
		version string
		present bool
	}{
		{"http-v1 carries version 1.0", domain.TriggerHTTPV1, "1.0", true},
		{"rest omits version", domain.TriggerRest, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synth := NewSynthesizer(tt.format)
			r := httptest.NewRequest("GET", "http://localhost/items?id=1&id=2", nil)
			r.Header.Add("X-Tag", "a")
			r.Header.Add("X-Tag", "b")

			payload, err := synth.Event(r, nil)
			if err != nil {
				t.Fatalf("Event() error = %v", err)
			}

			var raw map[string]any
			if err := json.Unmarshal(payload, &raw); err != nil {
				t.Fatalf("unmarshal payload: %v", err)
			}
			v, ok := raw["version"]
			if ok != tt.present {
				t.Fatalf("version present = %v, want %v", ok, tt.present)
			}
			if tt.present && v != tt.version {
				t.Errorf("version = %v, want %q", v, tt.version)
			}

			var ev events.APIGatewayProxyRequest
			if err := json.Unmarshal(payload, &ev); err != nil {
				t.Fatalf("unmarshal proxy event: %v", err)
			}
			if ev.HTTPMethod != "GET" {
				t.Errorf("HTTPMethod = %q, want GET", ev.HTTPMethod)
			}
			if got := ev.MultiValueQueryStringParameters["id"]; len(got) != 2 {
				t.Errorf("multi query id = %v, want both values", got)
			}
			if got := ev.QueryStringParameters["id"]; got != "2" {
				t.Errorf("single query id = %q, want the last value", got)
			}
			if got := ev.MultiValueHeaders["X-Tag"]; len(got) != 2 {
				t.Errorf("multi header X-Tag = %v, want both values", got)
			}
			if got := ev.Headers["X-Tag"]; got != "b" {
				t.Errorf("single header X-Tag = %q, want the last value", got)
			}
			if ev.RequestContext.Stage != "local" {
				t.Errorf("Stage = %q, want local", ev.RequestContext.Stage)
			}
			if ev.RequestContext.Identity.SourceIP == "" {
				t.Error("SourceIP should fall back to the socket peer")
			}
		})
	}
}

func TestSynthesize_ALB(t *testing.T) {
	synth := NewSynthesizer(domain.TriggerALB)

	r := httptest.NewRequest("GET", "http://lb.localtest.me/orders%20pending?q=a%2Fb", nil)
	r.Header.Set("User-Agent", "curl/8.0")

	payload, err := synth.Event(r, nil)
	if err != nil {
		t.Fatalf("Event() error = %v", err)
	}

	var ev events.ALBTargetGroupRequest
	if err := json.Unmarshal(payload, &ev); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	if ev.Path != "/orders%20pending" {
		t.Errorf("Path = %q, want the percent-encoded path", ev.Path)
	}
	if got := ev.MultiValueQueryStringParameters["q"]; len(got) != 1 || got[0] != "a%2Fb" {
		t.Errorf("query q = %v, want re-encoded %q", got, "a%2Fb")
	}
	if got := ev.MultiValueHeaders["user-agent"]; len(got) != 1 || got[0] != "curl/8.0" {
		t.Errorf("user-agent = %v, want lowercased key", got)
	}
	if got := ev.MultiValueHeaders["host"]; len(got) != 1 || got[0] != "lb.localtest.me" {
		t.Errorf("host = %v", got)
	}
	if xff := ev.MultiValueHeaders["x-forwarded-for"]; len(xff) == 0 {
		t.Error("load balancer should append the client hop to x-forwarded-for")
	}
	if len(ev.Headers) != 0 {
		t.Errorf("Headers = %v, want only multi-value maps", ev.Headers)
	}
	if !strings.HasPrefix(ev.RequestContext.ELB.TargetGroupArn, "arn:aws:elasticloadbalancing:") {
		t.Errorf("TargetGroupArn = %q", ev.RequestContext.ELB.TargetGroupArn)
	}
}

func TestSynthesize_UnsupportedFormat(t *testing.T) {
	synth := NewSynthesizer(domain.TriggerWebSocket)
	r := httptest.NewRequest("GET", "http://localhost/", nil)

	if _, err := synth.Event(r, nil); err == nil {
		t.Fatal("Event() should reject formats without an HTTP ingress shape")
	}
}
