package runtime

import (
	"fmt"
	"log/slog"

	"github.com/lambdafront/lambdafront/internal/domain"
)

// Option is a functional option for configuring a Front.
type Option func(*Front) error

// WithStageStrip removes the leading stage segment from gateway request
// paths. Off by default; function URL, ALB, and Lattice paths never carry
// a stage and are unaffected either way.
func WithStageStrip() Option {
	return func(f *Front) error {
		f.opts.StripStage = true
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Front) error {
		if logger == nil {
			return fmt.Errorf("logger must not be nil")
		}
		f.logger = logger
		return nil
	}
}

// WithBodyDecoder replaces the JSON default that Request.Bind uses for
// typed payload decoding.
func WithBodyDecoder(dec domain.BodyDecoder) Option {
	return func(f *Front) error {
		f.decoder = dec
		return nil
	}
}
