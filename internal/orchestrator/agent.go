package orchestrator

import (
	"context"
	"errors"

	"github.com/JaimeStill/foundry/internal/bedrock"
	"github.com/JaimeStill/foundry/internal/chatbots"
	"github.com/JaimeStill/foundry/workflow"
)

// loadChatbot resolves the tenant record the execution provisions for.
// A lookup miss fails the execution before any agent exists.
func (r *Runtime) loadChatbot(ctx context.Context, in workflow.Input) (*chatbots.Chatbot, error) {
	record, err := r.chatbots.Find(ctx, in.ProjectID, in.ChatbotID)
	if err != nil {
		if errors.Is(err, chatbots.ErrNotFound) {
			return nil, &workflow.NotFoundError{Resource: "chatbot", ID: in.ChatbotID}
		}
		return nil, err
	}
	return record, nil
}

// createAgent creates the Bedrock agent from the chatbot record, applying
// naming and instruction defaults where the record omits a value.
func (r *Runtime) createAgent(ctx context.Context, in workflow.Input, record *chatbots.Chatbot) (*workflow.AgentOutput, error) {
	model := record.FoundationModel
	if model == "" {
		model = workflow.DefaultFoundationModel
	}

	timeout := record.SessionTimeout
	if timeout <= 0 {
		timeout = workflow.DefaultSessionTimeout
	}

	agent, err := r.agents.CreateAgent(ctx, bedrock.CreateAgentInput{
		Name:             workflow.DeriveAgentName(record.Name),
		Instruction:      workflow.EnsureInstruction(record.AgentInstruction),
		FoundationModel:  model,
		Description:      record.Description,
		RoleARN:          r.options.AgentRoleARN,
		SessionTimeout:   timeout,
		EncryptionKeyARN: r.options.EncryptionKeyARN,
	})
	if err != nil {
		return nil, err
	}

	return &workflow.AgentOutput{
		AgentID:   agent.ID,
		AgentARN:  agent.ARN,
		AgentName: agent.Name,
		ChatbotID: in.ChatbotID,
		ProjectID: in.ProjectID,
	}, nil
}

// prepareAgent transitions the draft agent to a deployable state.
func (r *Runtime) prepareAgent(ctx context.Context, agent *workflow.AgentOutput) (*workflow.PrepareOutput, error) {
	prepared, err := r.agents.PrepareAgent(ctx, agent.AgentID)
	if err != nil {
		return nil, err
	}

	return &workflow.PrepareOutput{
		AgentID:      prepared.AgentID,
		AgentStatus:  prepared.AgentStatus,
		AgentVersion: prepared.AgentVersion,
	}, nil
}

// createAlias creates the routing alias for the prepared agent.
func (r *Runtime) createAlias(ctx context.Context, agent *workflow.AgentOutput, record *chatbots.Chatbot) (*workflow.AliasOutput, error) {
	alias, err := r.agents.CreateAlias(ctx, agent.AgentID, workflow.AliasName(record.Name))
	if err != nil {
		return nil, err
	}

	return &workflow.AliasOutput{
		AliasID:   alias.ID,
		AliasName: alias.Name,
	}, nil
}
