// Package invoker abstracts how the emulator reaches a function: an
// in-process handler, a deployed one, or either wrapped with recording.
package invoker

import (
	"context"

	"github.com/lambdafront/lambdafront/internal/domain"
)

// Invoker sends one trigger event payload to a function and returns the
// function's wire response payload.
type Invoker interface {
	Invoke(ctx context.Context, payload []byte) ([]byte, error)
}

// Func adapts a plain function to the Invoker interface.
type Func func(ctx context.Context, payload []byte) ([]byte, error)

// Invoke calls f.
func (f Func) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	return f(ctx, payload)
}

// Meta describes the invocation for the recording decorator. The caller
// that synthesized the payload knows both fields; decoding the payload
// again to recover them would be wasted work.
type Meta struct {
	Trigger    domain.Trigger
	RemoteAddr string
}

type metaContextKey struct{}

// WithMeta attaches record metadata to the invocation context.
func WithMeta(ctx context.Context, m Meta) context.Context {
	return context.WithValue(ctx, metaContextKey{}, m)
}

// MetaFrom returns the attached metadata, zero when none was attached.
func MetaFrom(ctx context.Context) Meta {
	m, _ := ctx.Value(metaContextKey{}).(Meta)
	return m
}
