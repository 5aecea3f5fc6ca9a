// Package storage records emulator invocations for inspection. The
// normalization pipeline itself never touches storage; only the
// emulator's recording invoker writes here.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/lambdafront/lambdafront/internal/domain"
)

// ErrNotFound reports a record id with no stored invocation.
var ErrNotFound = errors.New("invocation record not found")

// InvocationRecord is one recorded invocation: the synthesized trigger
// payload that went in, the wire response that came out, and enough
// metadata to find it again.
type InvocationRecord struct {
	ID         string
	CreatedAt  time.Time
	Trigger    domain.Trigger
	RemoteAddr string
	Payload    []byte // trigger event JSON
	Response   []byte // wire response JSON, nil when the invocation failed
	Error      string // invocation error text, empty on success
	DurationMS int64
}

// ListOptions filters and pages record listings.
type ListOptions struct {
	Trigger domain.Trigger // empty matches every trigger
	Limit   int
	Offset  int
}

// Store persists invocation records. Implementations are safe for
// concurrent use and list newest records first.
type Store interface {
	Save(ctx context.Context, rec *InvocationRecord) error
	Get(ctx context.Context, id string) (*InvocationRecord, error)
	List(ctx context.Context, opts ListOptions) ([]*InvocationRecord, error)
	Close() error
}
