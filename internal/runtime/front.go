// Package runtime attaches trigger normalization to the function
// invocation loop. A Front owns one handler and drives every raw payload
// through decode, canonicalize, handler, and specialize.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/lambdafront/lambdafront/internal/codec"
	"github.com/lambdafront/lambdafront/internal/domain"
	"github.com/lambdafront/lambdafront/internal/trigger"
)

// Handler processes one canonical request. Implementations receive the
// invocation context and must honor its deadline.
type Handler interface {
	Handle(ctx context.Context, req *domain.Request) (*domain.Response, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, req *domain.Request) (*domain.Response, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	return f(ctx, req)
}

// Front is the invocation-loop collaborator. It is safe for concurrent
// use; each invocation gets its own request and response values.
type Front struct {
	handler Handler
	opts    codec.Options
	decoder domain.BodyDecoder
	logger  *slog.Logger
}

// New creates a Front around h with the given options.
func New(h Handler, opts ...Option) (*Front, error) {
	if h == nil {
		return nil, fmt.Errorf("handler required")
	}

	f := &Front{
		handler: h,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}
	return f, nil
}

// Handle runs one raw trigger payload through the pipeline and returns
// the response serialized in the wire shape of the trigger that produced
// it. Decode and canonicalization failures are fatal to the invocation
// and come back as the pipeline's own error types.
func (f *Front) Handle(ctx context.Context, raw []byte) ([]byte, error) {
	start := time.Now()

	ev, err := trigger.Decode(raw)
	if err != nil {
		f.logger.Error("decode trigger payload", slog.String("error", err.Error()))
		return nil, err
	}

	req, err := codec.Canonicalize(ev, f.opts)
	if err != nil {
		f.logger.Error("canonicalize request",
			slog.String("trigger", string(ev.Trigger)),
			slog.String("error", err.Error()))
		return nil, err
	}
	req.Decoder = f.decoder
	req.Invocation = invocationFrom(ctx)

	resp, err := f.handler.Handle(ctx, req)
	if err != nil {
		f.logger.Error("handler failed",
			slog.String("trigger", string(req.Trigger)),
			slog.String("method", string(req.Method)),
			slog.String("path", req.Path),
			slog.String("error", err.Error()))
		return nil, err
	}
	if resp == nil {
		err := domain.ErrResponseEncode("handler returned no response").WithTrigger(req.Trigger)
		f.logger.Error("handler failed", slog.String("error", err.Error()))
		return nil, err
	}

	out, err := codec.Specialize(resp, req.Trigger)
	if err != nil {
		f.logger.Error("specialize response",
			slog.String("trigger", string(req.Trigger)),
			slog.String("error", err.Error()))
		return nil, err
	}

	f.logger.Debug("invocation complete",
		slog.String("trigger", string(req.Trigger)),
		slog.String("method", string(req.Method)),
		slog.String("path", req.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	return out, nil
}

// invocationFrom lifts platform metadata out of the invocation context.
// Outside a function environment there is none and the request carries
// nil.
func invocationFrom(ctx context.Context) *domain.Invocation {
	lc, ok := lambdacontext.FromContext(ctx)
	if !ok {
		return nil
	}

	inv := &domain.Invocation{
		RequestID:   lc.AwsRequestID,
		FunctionARN: lc.InvokedFunctionArn,
	}
	if deadline, ok := ctx.Deadline(); ok {
		inv.Deadline = deadline
	}
	return inv
}
