package log

import (
	"context"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

// LambdaContext returns a context carrying a child of the global logger
// tagged with the invocation's request ID and function name. Outside of a
// Lambda invocation the context is returned with the global logger unchanged.
func LambdaContext(ctx context.Context) context.Context {
	child := L().With()
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		child = child.Str(FieldAWSRequestID, lc.AwsRequestID)
	}
	if lambdacontext.FunctionName != "" {
		child = child.Str(FieldFunction, lambdacontext.FunctionName)
	}
	return WithLogger(ctx, child.Logger())
}
