package invoker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
)

// Remote invokes a deployed function through the platform API, letting
// the emulator front a function that already lives in an account.
type Remote struct {
	client    *lambda.Client
	function  string
	qualifier string
}

var _ Invoker = (*Remote)(nil)

// NewRemote builds a Remote for the named function. Credentials resolve
// through the default SDK chain; region overrides the chain's region
// when non-empty.
func NewRemote(ctx context.Context, function, region, qualifier string) (*Remote, error) {
	var optFns []func(*awsconfig.LoadOptions) error
	if region != "" {
		optFns = append(optFns, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Remote{
		client:    lambda.NewFromConfig(awsCfg),
		function:  function,
		qualifier: qualifier,
	}, nil
}

func (r *Remote) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	input := &lambda.InvokeInput{
		FunctionName: aws.String(r.function),
		Payload:      payload,
	}
	if r.qualifier != "" {
		input.Qualifier = aws.String(r.qualifier)
	}

	out, err := r.client.Invoke(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", r.function, err)
	}
	if out.FunctionError != nil {
		return nil, functionError(aws.ToString(out.FunctionError), out.Payload)
	}
	return out.Payload, nil
}

// functionError surfaces the error a function reported in-band. The
// payload carries errorType and errorMessage when the runtime produced
// it; anything else falls back to the raw function error marker.
func functionError(marker string, payload []byte) error {
	var parsed struct {
		ErrorType    string `json:"errorType"`
		ErrorMessage string `json:"errorMessage"`
	}
	if err := json.Unmarshal(payload, &parsed); err == nil && parsed.ErrorType != "" {
		return fmt.Errorf("function returned %s: %s", parsed.ErrorType, parsed.ErrorMessage)
	}
	return fmt.Errorf("function returned error: %s", marker)
}
