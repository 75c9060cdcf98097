package bedrock

import (
	"context"
	"errors"

	"github.com/aws/smithy-go"

	"github.com/JaimeStill/foundry/workflow"
)

// fail logs the structured service error and wraps it as a
// BackingServiceError for the orchestrator to classify.
func (s *system) fail(ctx context.Context, op string, err error) error {
	code := ""
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code = apiErr.ErrorCode()
	}

	s.logger.ErrorContext(ctx, "agent service call failed", "op", op, "code", code, "error", err)

	return &workflow.BackingServiceError{Op: op, Code: code, Err: err}
}
