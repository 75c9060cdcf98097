package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JaimeStill/foundry/internal/chatbots"
	"github.com/JaimeStill/foundry/workflow"
)

// finalize persists the agent binding: the chatbot record flips to ACTIVE
// and the agent detail record is written in the same transaction. This is
// the only step that mutates tenant state; a failure anywhere earlier
// leaves the record in PENDING.
func (r *Runtime) finalize(ctx context.Context, wc *workflow.Context) (*workflow.Result, error) {
	if wc.Agent == nil {
		return nil, &workflow.MissingInputError{Key: "agent"}
	}
	if wc.Alias == nil {
		return nil, &workflow.MissingInputError{Key: "alias"}
	}
	if wc.ActionGroups == nil {
		return nil, &workflow.MissingInputError{Key: "actionGroups"}
	}

	groups, err := json.Marshal(wc.ActionGroups.Groups)
	if err != nil {
		return nil, fmt.Errorf("marshal action groups: %w", err)
	}

	cmd := chatbots.ActivateCommand{
		ChatbotID:    wc.Input.ChatbotID,
		ProjectID:    wc.Input.ProjectID,
		AgentID:      wc.Agent.AgentID,
		AgentARN:     wc.Agent.AgentARN,
		AgentAliasID: wc.Alias.AliasID,
		ActionGroups: groups,
	}
	if wc.KnowledgeBase != nil {
		cmd.KnowledgeBaseID = &wc.KnowledgeBase.KnowledgeBaseID
	}

	if err := r.chatbots.Activate(ctx, cmd); err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "chatbot activated",
		"chatbot_id", wc.Input.ChatbotID,
		"agent_id", wc.Agent.AgentID,
		"alias_id", wc.Alias.AliasID)

	return &workflow.Result{
		ChatbotID:    wc.Input.ChatbotID,
		ProjectID:    wc.Input.ProjectID,
		AgentID:      wc.Agent.AgentID,
		AgentARN:     wc.Agent.AgentARN,
		AgentAliasID: wc.Alias.AliasID,
		CompletedAt:  time.Now().UTC(),
	}, nil
}
