// The echo binary runs the reflection handler behind trigger payload
// normalization. Deployed as a function it answers any HTTP-fronted
// trigger; run locally with FRONT_EVENT_PATH it performs a single
// invocation from an event file.
package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/lambdafront/lambdafront/internal/echo"
	"github.com/lambdafront/lambdafront/pkg/front"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	opts := []front.Option{front.WithLogger(logger)}
	if os.Getenv("FRONT_STRIP_STAGE") != "" {
		opts = append(opts, front.WithStageStrip())
	}

	if err := front.Serve(front.HandlerFunc(echo.Handle), opts...); err != nil {
		log.Fatalf("Serve failed: %v", err)
	}
}
