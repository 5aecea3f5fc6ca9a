package echo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/lambdafront/lambdafront/internal/domain"
)

func TestHandle(t *testing.T) {
	req := &domain.Request{
		Method:     domain.MethodPost,
		Path:       "/items",
		RawPath:    "/prod/items",
		Query:      url.Values{"tag": {"a", "b"}},
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       []byte(`{"sku":"A1"}`),
		WasBase64:  true,
		PathParams: map[string]string{},
		Trigger:    domain.TriggerRest,
		Context:    &domain.GatewayContext{},
		Invocation: &domain.Invocation{RequestID: "inv-9"},
	}

	resp, err := Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}

	var rep reply
	if err := json.Unmarshal(resp.Body, &rep); err != nil {
		t.Fatalf("unmarshal reply: %v", err)
	}
	if rep.Trigger != "rest" {
		t.Errorf("trigger = %q, want rest", rep.Trigger)
	}
	if rep.Method != "POST" {
		t.Errorf("method = %q, want POST", rep.Method)
	}
	if rep.Path != "/items" || rep.RawPath != "/prod/items" {
		t.Errorf("path = %q rawPath = %q", rep.Path, rep.RawPath)
	}
	if got := rep.Query["tag"]; len(got) != 2 {
		t.Errorf("query tag = %v, want both values", got)
	}
	if !rep.WasBase64 {
		t.Error("wasBase64 should survive into the reply")
	}
	if rep.RequestID != "inv-9" {
		t.Errorf("requestId = %q, want inv-9", rep.RequestID)
	}
}

func TestHandle_NoInvocation(t *testing.T) {
	req := &domain.Request{
		Method:     domain.MethodGet,
		Path:       "/",
		Query:      url.Values{},
		Header:     http.Header{},
		PathParams: map[string]string{},
		Trigger:    domain.TriggerALB,
		Context:    &domain.ALBContext{},
	}

	resp, err := Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	var rep reply
	if err := json.Unmarshal(resp.Body, &rep); err != nil {
		t.Fatalf("unmarshal reply: %v", err)
	}
	if rep.RequestID != "" {
		t.Errorf("requestId = %q, want empty outside an invocation loop", rep.RequestID)
	}
	if rep.Stage != "" {
		t.Errorf("stage = %q, want empty for load balancer events", rep.Stage)
	}
}
