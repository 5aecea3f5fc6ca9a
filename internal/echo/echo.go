// Package echo implements the reflection handler used by the echo binary
// and as the emulator's default local target. It mirrors the canonical
// request back as JSON so every normalization step is visible from a
// plain HTTP client.
package echo

import (
	"context"
	"net/http"
	"net/url"

	"github.com/lambdafront/lambdafront/internal/domain"
)

type reply struct {
	Trigger    string            `json:"trigger"`
	Method     string            `json:"method"`
	Path       string            `json:"path"`
	RawPath    string            `json:"rawPath,omitempty"`
	Query      url.Values        `json:"query,omitempty"`
	PathParams map[string]string `json:"pathParams,omitempty"`
	Stage      string            `json:"stage,omitempty"`
	SourceIP   string            `json:"sourceIp,omitempty"`
	Headers    http.Header       `json:"headers,omitempty"`
	Body       string            `json:"body,omitempty"`
	WasBase64  bool              `json:"wasBase64,omitempty"`
	RequestID  string            `json:"requestId,omitempty"`
}

// Handle reflects the canonical request back as a JSON response.
func Handle(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	rep := reply{
		Trigger:    string(req.Trigger),
		Method:     string(req.Method),
		Path:       req.Path,
		RawPath:    req.RawPath,
		Query:      req.Query,
		PathParams: req.PathParams,
		Headers:    req.Header,
		Body:       string(req.Body),
		WasBase64:  req.WasBase64,
	}
	if stage, ok := req.Stage(); ok {
		rep.Stage = stage
	}
	if ip, ok := req.SourceIP(); ok {
		rep.SourceIP = ip
	}
	if inv, ok := req.InvocationMetadata(); ok {
		rep.RequestID = inv.RequestID
	}
	return domain.JSONResponse(http.StatusOK, rep)
}
