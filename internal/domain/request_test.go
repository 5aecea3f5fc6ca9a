package domain

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

func TestRequest_QueryValue(t *testing.T) {
	req := &Request{Query: url.Values{
		"tag":  {"a", "b"},
		"page": {"3"},
	}}

	tests := []struct {
		name      string
		key       string
		expected  string
		expectedO bool
	}{
		{name: "first of many", key: "tag", expected: "a", expectedO: true},
		{name: "single", key: "page", expected: "3", expectedO: true},
		{name: "absent", key: "missing", expected: "", expectedO: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := req.QueryValue(tt.key)
			if got != tt.expected || ok != tt.expectedO {
				t.Errorf("QueryValue(%q) = (%q, %v), want (%q, %v)", tt.key, got, ok, tt.expected, tt.expectedO)
			}
		})
	}
}

func TestRequest_QueryValues(t *testing.T) {
	req := &Request{Query: url.Values{"tag": {"a", "b", "a"}}}

	got := req.QueryValues("tag")
	if len(got) != 3 {
		t.Fatalf("QueryValues count = %d, want 3", len(got))
	}
	if got[0] != "a" || got[1] != "b" || got[2] != "a" {
		t.Errorf("QueryValues order = %v, want [a b a]", got)
	}
	if req.QueryValues("missing") != nil {
		t.Errorf("QueryValues(missing) = %v, want nil", req.QueryValues("missing"))
	}
}

func TestRequest_PathParam(t *testing.T) {
	req := &Request{PathParams: map[string]string{"id": "42"}}

	if v, ok := req.PathParam("id"); !ok || v != "42" {
		t.Errorf("PathParam(id) = (%q, %v), want (42, true)", v, ok)
	}
	if _, ok := req.PathParam("missing"); ok {
		t.Errorf("PathParam(missing) ok = true, want false")
	}
}

func TestRequest_Bind(t *testing.T) {
	req := &Request{
		Body:    []byte(`{"name":"order-1","count":2}`),
		Trigger: TriggerHTTPV2,
	}

	var payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	if err := req.Bind(&payload); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if payload.Name != "order-1" || payload.Count != 2 {
		t.Errorf("Bind() = %+v, want {order-1 2}", payload)
	}
}

func TestRequest_BindError(t *testing.T) {
	req := &Request{Body: []byte(`{"name":`), Trigger: TriggerRest}

	var payload map[string]any
	err := req.Bind(&payload)
	if err == nil {
		t.Fatal("Bind() error = nil, want payload decode error")
	}

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("Bind() error type = %T, want *Error", err)
	}
	if e.Kind != KindPayloadDecode {
		t.Errorf("Kind = %v, want %v", e.Kind, KindPayloadDecode)
	}
	if e.Trigger != TriggerRest {
		t.Errorf("Trigger = %v, want %v", e.Trigger, TriggerRest)
	}
	if e.Err == nil {
		t.Error("Err = nil, want wrapped cause")
	}
}

func TestRequest_BindWith(t *testing.T) {
	req := &Request{Body: []byte("count=2")}

	called := false
	dec := func(data []byte, v any) error {
		called = true
		*(v.(*string)) = string(data)
		return nil
	}

	var out string
	if err := req.BindWith(&out, dec); err != nil {
		t.Fatalf("BindWith() error = %v", err)
	}
	if !called {
		t.Error("custom decoder was not called")
	}
	if out != "count=2" {
		t.Errorf("decoded = %q, want %q", out, "count=2")
	}
}

func TestRequest_ContextAccessors(t *testing.T) {
	gateway := &Request{Trigger: TriggerRest, Context: &GatewayContext{
		APIGatewayProxyRequestContext: events.APIGatewayProxyRequestContext{
			Stage:      "prod",
			DomainName: "api.example.com",
			RequestID:  "req-1",
			Identity:   events.APIGatewayRequestIdentity{SourceIP: "192.0.2.1"},
			Authorizer: map[string]any{"principalId": "user-1"},
		},
	}}
	httpV2 := &Request{Trigger: TriggerHTTPV2, Context: &HTTPContext{
		APIGatewayV2HTTPRequestContext: events.APIGatewayV2HTTPRequestContext{
			Stage:      "$default",
			DomainName: "abc123.execute-api.us-east-1.amazonaws.com",
			RequestID:  "req-2",
			RouteKey:   "$default",
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				SourceIP: "192.0.2.2",
			},
		},
	}}
	ws := &Request{Trigger: TriggerWebSocket, Context: &WebSocketContext{
		APIGatewayWebsocketProxyRequestContext: events.APIGatewayWebsocketProxyRequestContext{
			Stage:        "dev",
			ConnectionID: "conn-1",
			RouteKey:     "$connect",
			EventType:    "CONNECT",
			Identity:     events.APIGatewayRequestIdentity{SourceIP: "192.0.2.3"},
		},
	}}
	alb := &Request{Trigger: TriggerALB, Context: &ALBContext{
		ALBTargetGroupRequestContext: events.ALBTargetGroupRequestContext{
			ELB: events.ELBContext{TargetGroupArn: "arn:aws:elasticloadbalancing:tg/demo"},
		},
	}}
	lattice := &Request{Trigger: TriggerLattice, Context: &LatticeContext{
		LatticeRequestContext: LatticeRequestContext{
			TargetGroupARN: "arn:aws:vpc-lattice:tg/demo",
			ServiceARN:     "arn:aws:vpc-lattice:svc/demo",
		},
	}}

	t.Run("stage", func(t *testing.T) {
		if v, ok := gateway.Stage(); !ok || v != "prod" {
			t.Errorf("gateway Stage() = (%q, %v), want (prod, true)", v, ok)
		}
		if v, ok := ws.Stage(); !ok || v != "dev" {
			t.Errorf("websocket Stage() = (%q, %v), want (dev, true)", v, ok)
		}
		if _, ok := alb.Stage(); ok {
			t.Error("alb Stage() ok = true, want false")
		}
		if _, ok := lattice.Stage(); ok {
			t.Error("lattice Stage() ok = true, want false")
		}
	})

	t.Run("source ip", func(t *testing.T) {
		if v, ok := httpV2.SourceIP(); !ok || v != "192.0.2.2" {
			t.Errorf("http SourceIP() = (%q, %v), want (192.0.2.2, true)", v, ok)
		}
		if _, ok := alb.SourceIP(); ok {
			t.Error("alb SourceIP() ok = true, want false")
		}
	})

	t.Run("connection id", func(t *testing.T) {
		if v, ok := ws.ConnectionID(); !ok || v != "conn-1" {
			t.Errorf("ConnectionID() = (%q, %v), want (conn-1, true)", v, ok)
		}
		if _, ok := httpV2.ConnectionID(); ok {
			t.Error("http ConnectionID() ok = true, want false")
		}
	})

	t.Run("route key", func(t *testing.T) {
		if v, ok := ws.RouteKey(); !ok || v != "$connect" {
			t.Errorf("websocket RouteKey() = (%q, %v), want ($connect, true)", v, ok)
		}
		if v, ok := httpV2.RouteKey(); !ok || v != "$default" {
			t.Errorf("http RouteKey() = (%q, %v), want ($default, true)", v, ok)
		}
		if _, ok := gateway.RouteKey(); ok {
			t.Error("gateway RouteKey() ok = true, want false")
		}
	})

	t.Run("event type", func(t *testing.T) {
		if v, ok := ws.EventType(); !ok || v != "CONNECT" {
			t.Errorf("EventType() = (%q, %v), want (CONNECT, true)", v, ok)
		}
		if _, ok := gateway.EventType(); ok {
			t.Error("gateway EventType() ok = true, want false")
		}
	})

	t.Run("authorizer", func(t *testing.T) {
		claims, ok := gateway.Authorizer()
		if !ok {
			t.Fatal("gateway Authorizer() ok = false, want true")
		}
		if claims["principalId"] != "user-1" {
			t.Errorf("principalId = %v, want user-1", claims["principalId"])
		}
		if _, ok := httpV2.Authorizer(); ok {
			t.Error("http Authorizer() ok = true, want false")
		}
	})

	t.Run("target group arn", func(t *testing.T) {
		if v, ok := alb.TargetGroupARN(); !ok || v != "arn:aws:elasticloadbalancing:tg/demo" {
			t.Errorf("alb TargetGroupARN() = (%q, %v)", v, ok)
		}
		if v, ok := lattice.TargetGroupARN(); !ok || v != "arn:aws:vpc-lattice:tg/demo" {
			t.Errorf("lattice TargetGroupARN() = (%q, %v)", v, ok)
		}
		if _, ok := gateway.TargetGroupARN(); ok {
			t.Error("gateway TargetGroupARN() ok = true, want false")
		}
	})

	t.Run("domain name", func(t *testing.T) {
		if v, ok := httpV2.DomainName(); !ok || v == "" {
			t.Errorf("http DomainName() = (%q, %v), want non-empty", v, ok)
		}
	})

	t.Run("trigger request id", func(t *testing.T) {
		if v, ok := gateway.TriggerRequestID(); !ok || v != "req-1" {
			t.Errorf("gateway TriggerRequestID() = (%q, %v), want (req-1, true)", v, ok)
		}
		if _, ok := alb.TriggerRequestID(); ok {
			t.Error("alb TriggerRequestID() ok = true, want false")
		}
	})
}

func TestRequest_InvocationMetadata(t *testing.T) {
	deadline := time.Now().Add(2 * time.Second)
	req := &Request{Invocation: &Invocation{
		RequestID:   "inv-1",
		FunctionARN: "arn:aws:lambda:us-east-1:123456789012:function:demo",
		Deadline:    deadline,
	}}

	inv, ok := req.InvocationMetadata()
	if !ok {
		t.Fatal("InvocationMetadata() ok = false, want true")
	}
	if inv.RequestID != "inv-1" {
		t.Errorf("RequestID = %q, want inv-1", inv.RequestID)
	}
	if !inv.Deadline.Equal(deadline) {
		t.Errorf("Deadline = %v, want %v", inv.Deadline, deadline)
	}

	bare := &Request{}
	if _, ok := bare.InvocationMetadata(); ok {
		t.Error("bare InvocationMetadata() ok = true, want false")
	}
}
