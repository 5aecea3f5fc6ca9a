package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
)

// Environment variables consulted by Serve.
const (
	// envFunctionName is set by the platform inside a real function
	// environment.
	envFunctionName = "AWS_LAMBDA_FUNCTION_NAME"

	// envEventPath names a JSON event file for a single local invocation
	// when running outside the platform.
	envEventPath = "FRONT_EVENT_PATH"
)

// Serve builds a Front around h and attaches it to the platform
// invocation loop. Outside a function environment, a file named by
// FRONT_EVENT_PATH is run through the pipeline once and the wire response
// is written to stdout, which keeps handler binaries runnable during
// development without a deploy.
func Serve(h Handler, opts ...Option) error {
	f, err := New(h, opts...)
	if err != nil {
		return err
	}

	if os.Getenv(envFunctionName) == "" {
		path := os.Getenv(envEventPath)
		if path == "" {
			return fmt.Errorf("not in a function environment and %s is unset", envEventPath)
		}
		return f.serveOnce(path)
	}

	lambda.StartWithOptions(func(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
		out, err := f.Handle(ctx, raw)
		if err != nil {
			return nil, err
		}
		return json.RawMessage(out), nil
	})
	return nil
}

// serveOnce invokes the pipeline with the contents of one event file.
func (f *Front) serveOnce(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read event file: %w", err)
	}

	out, err := f.Handle(context.Background(), raw)
	if err != nil {
		return fmt.Errorf("invoke: %w", err)
	}

	if _, err := os.Stdout.Write(append(out, '\n')); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
