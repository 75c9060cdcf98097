package orchestrator

import (
	"context"
	"fmt"

	"github.com/JaimeStill/foundry/internal/bedrock"
	"github.com/JaimeStill/foundry/workflow"
)

// createActionGroup resolves the agent's current version and registers the
// configured action executor against it.
func (r *Runtime) createActionGroup(ctx context.Context, in workflow.Input, agent *workflow.AgentOutput) (*workflow.ActionGroupOutput, error) {
	version, err := r.agents.LatestAgentVersion(ctx, agent.AgentID)
	if err != nil {
		return nil, err
	}

	group, err := r.agents.CreateActionGroup(ctx, bedrock.CreateActionGroupInput{
		AgentID:      agent.AgentID,
		AgentVersion: version,
		Name:         fmt.Sprintf("ActionGroup-%s", in.ChatbotID),
		Description:  fmt.Sprintf("Action group for chatbot %s", in.ChatbotID),
		FunctionARN:  r.options.ActionFunctionARN,
		APISchema:    r.options.ActionGroupSchema,
	})
	if err != nil {
		return nil, err
	}

	return &workflow.ActionGroupOutput{
		AgentVersion: version,
		Groups: []workflow.ActionGroup{
			{ActionGroupID: group.ID, Name: group.Name},
		},
	}, nil
}
