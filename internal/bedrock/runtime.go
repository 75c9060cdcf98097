package bedrock

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	runtimetypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
)

// RuntimeAPI is the subset of the Bedrock agent runtime client the
// façade uses. Satisfied by *bedrockagentruntime.Client.
type RuntimeAPI interface {
	InvokeAgent(ctx context.Context, params *bedrockagentruntime.InvokeAgentInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.InvokeAgentOutput, error)
}

// InvokeInput addresses one agent invocation within a session.
type InvokeInput struct {
	AgentID    string
	AgentAlias string
	SessionID  string
	Text       string
}

// ChunkFunc receives each completion chunk as it arrives on the
// response stream. A non-nil return stops consumption and is returned
// from Invoke unchanged.
type ChunkFunc func(chunk []byte) error

// Runtime invokes a prepared agent and streams its response.
type Runtime interface {
	Invoke(ctx context.Context, in InvokeInput, fn ChunkFunc) error
}

func (s *system) Invoke(ctx context.Context, in InvokeInput, fn ChunkFunc) error {
	out, err := s.runtime.InvokeAgent(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(in.AgentID),
		AgentAliasId: aws.String(in.AgentAlias),
		SessionId:    aws.String(in.SessionID),
		InputText:    aws.String(in.Text),
	})
	if err != nil {
		return s.fail(ctx, "invoke agent", err)
	}

	stream := out.GetStream()
	defer stream.Close()

	for event := range stream.Events() {
		chunk, ok := event.(*runtimetypes.ResponseStreamMemberChunk)
		if !ok {
			continue
		}
		if err := fn(chunk.Value.Bytes); err != nil {
			return err
		}
	}

	if err := stream.Err(); err != nil {
		return s.fail(ctx, "read response stream", err)
	}

	return nil
}
