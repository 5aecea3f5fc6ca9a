package invoker

import (
	"context"

	"github.com/lambdafront/lambdafront/internal/runtime"
)

// Local drives an in-process Front, so a handler under development runs
// inside the emulator daemon with no deploy step.
type Local struct {
	front *runtime.Front
}

var _ Invoker = (*Local)(nil)

// NewLocal wraps front as an Invoker.
func NewLocal(front *runtime.Front) *Local {
	return &Local{front: front}
}

func (l *Local) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	return l.front.Handle(ctx, payload)
}
