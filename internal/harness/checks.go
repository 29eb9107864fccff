package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"

	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/terraform"
)

// NamePrefix is the logical prefix every provisioned resource name carries.
const NamePrefix = "new_account_trust_policy"

// Logical output names exposed by the Terraform configuration.
const (
	OutputKeyEventRule   = "aws_cloudwatch_event_rule"
	OutputKeyEventTarget = "aws_cloudwatch_event_target"
	OutputKeyPermission  = "aws_lambda_permission_events"
	OutputKeyLambda      = "lambda"
)

// Expected error envelope produced by the real-invocation check. The
// function cannot resolve the mock event's create-account status, so the
// invocation surfaces a caught downstream failure. LocalStack reports it as
// InvocationException (AWS proper would report InvalidInputException).
const (
	ExpectedErrorType    = "InvocationException"
	ExpectedErrorMessage = "An error occurred (UnrecognizedClientException) when calling the " +
		"DescribeCreateAccountStatus operation:"
)

// ExpectedOutputKeys returns the exact key set the configuration must expose.
func ExpectedOutputKeys() []string {
	return []string{
		OutputKeyEventRule,
		OutputKeyEventTarget,
		OutputKeyPermission,
		OutputKeyLambda,
	}
}

// nameAttributes maps each output to the attribute carrying its
// prefix-checked identifier.
var nameAttributes = map[string]string{
	OutputKeyEventRule:   "name",
	OutputKeyEventTarget: "rule",
	OutputKeyPermission:  "function_name",
	OutputKeyLambda:      "function_name",
}

// Invoker is the slice of the Lambda API the invocation checks rely on.
// *lambda.Client satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// ErrorEnvelope is the structured error body returned by a failed function
// invocation.
type ErrorEnvelope struct {
	ErrorType    string `json:"errorType"`
	ErrorMessage string `json:"errorMessage"`
}

// FunctionName extracts the deployed function's name from the lambda output.
func FunctionName(outputs terraform.Outputs) (string, error) {
	name, err := outputAttribute(outputs, OutputKeyLambda, "function_name")
	if err != nil {
		return "", err
	}
	return name, nil
}

// CheckOutputs validates the shape of the provisioning outputs: the key set
// must match ExpectedOutputKeys exactly, and every identifying attribute
// must carry the logical naming prefix.
func CheckOutputs(outputs terraform.Outputs) error {
	// Key set equality is the invariant; Outputs.Keys is sorted, so sorting
	// the expected set makes the comparison order-independent.
	got := outputs.Keys()
	want := ExpectedOutputKeys()
	sort.Strings(want)

	if len(got) != len(want) {
		return fmt.Errorf("unexpected output keys: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("unexpected output keys: got %v, want %v", got, want)
		}
	}

	for key, attr := range nameAttributes {
		name, err := outputAttribute(outputs, key, attr)
		if err != nil {
			return err
		}
		if !strings.HasPrefix(name, NamePrefix) {
			return fmt.Errorf("output %s attribute %s is %q, want prefix %q", key, attr, name, NamePrefix)
		}
	}
	return nil
}

// CheckDryRun invokes the function in DryRun mode, which validates that it
// is deployed and invocable without executing it.
func CheckDryRun(ctx context.Context, invoker Invoker, functionName string) error {
	resp, err := invoker.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(functionName),
		InvocationType: lambdatypes.InvocationTypeDryRun,
	})
	if err != nil {
		return invokeError("dry-run invocation", functionName, err)
	}
	if resp.StatusCode != 204 {
		return fmt.Errorf("dry-run invocation of %s returned status %d, want 204", functionName, resp.StatusCode)
	}
	return nil
}

// CheckInvocation invokes the function synchronously with the mock
// account-creation event. The transport must succeed (status 200) while the
// response body carries the caught downstream failure, proving the function,
// its runtime dependencies and its error-logging path are all installed.
func CheckInvocation(ctx context.Context, invoker Invoker, functionName string, event AccountCreatedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize mock event: %w", err)
	}

	resp, err := invoker.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(functionName),
		InvocationType: lambdatypes.InvocationTypeRequestResponse,
		Payload:        payload,
	})
	if err != nil {
		return invokeError("invocation", functionName, err)
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("invocation of %s returned status %d, want 200", functionName, resp.StatusCode)
	}

	var envelope ErrorEnvelope
	if err := json.Unmarshal(resp.Payload, &envelope); err != nil {
		return fmt.Errorf("invocation response is not a JSON error envelope: %w", err)
	}
	if envelope.ErrorType == "" {
		return fmt.Errorf("invocation response has no errorType: %s", resp.Payload)
	}
	if envelope.ErrorType != ExpectedErrorType {
		return fmt.Errorf("invocation errorType is %q, want %q", envelope.ErrorType, ExpectedErrorType)
	}
	if envelope.ErrorMessage == "" {
		return fmt.Errorf("invocation response has no errorMessage: %s", resp.Payload)
	}
	if !strings.Contains(envelope.ErrorMessage, ExpectedErrorMessage) {
		return fmt.Errorf("invocation errorMessage %q does not contain %q", envelope.ErrorMessage, ExpectedErrorMessage)
	}
	return nil
}

// invokeError wraps a failed Invoke call, surfacing the service error code
// when the SDK reports one.
func invokeError(op, functionName string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s of %s failed with %s: %w", op, functionName, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("%s of %s failed: %w", op, functionName, err)
}

func outputAttribute(outputs terraform.Outputs, key, attr string) (string, error) {
	obj, ok := outputs.Object(key)
	if !ok {
		return "", fmt.Errorf("output %s is missing or not an object", key)
	}
	value, ok := obj[attr].(string)
	if !ok {
		return "", fmt.Errorf("output %s has no string attribute %s", key, attr)
	}
	return value, nil
}
