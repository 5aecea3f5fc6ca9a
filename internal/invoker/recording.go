package invoker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lambdafront/lambdafront/internal/storage"
)

// Recording decorates an Invoker and persists every invocation,
// successful or not. The wrapped invoker's result always wins: a failed
// save is logged and the response still flows back.
type Recording struct {
	next   Invoker
	store  storage.Store
	logger *slog.Logger
}

var _ Invoker = (*Recording)(nil)

// NewRecording wraps next so every invocation lands in store.
func NewRecording(next Invoker, store storage.Store, logger *slog.Logger) *Recording {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recording{next: next, store: store, logger: logger}
}

func (r *Recording) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	start := time.Now()
	resp, err := r.next.Invoke(ctx, payload)

	meta := MetaFrom(ctx)
	rec := &storage.InvocationRecord{
		ID:         uuid.NewString(),
		CreatedAt:  start,
		Trigger:    meta.Trigger,
		RemoteAddr: meta.RemoteAddr,
		Payload:    payload,
		Response:   resp,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		rec.Error = err.Error()
	}

	if saveErr := r.store.Save(ctx, rec); saveErr != nil {
		r.logger.Error("record invocation",
			slog.String("id", rec.ID),
			slog.String("error", saveErr.Error()))
	}
	return resp, err
}
