package orchestrator

import (
	"context"
	"fmt"

	"github.com/JaimeStill/foundry/internal/bedrock"
	"github.com/JaimeStill/foundry/workflow"
)

// createKnowledgeBase strict-checks the collection and creates the vector
// knowledge base over it. The check is a fresh lookup, not the poll loop's
// snapshot: the wait loop progresses on any settled status, so this is where
// a collection that never reached ACTIVE fails the execution.
func (r *Runtime) createKnowledgeBase(ctx context.Context, in workflow.Input, status *workflow.StatusOutput) (*workflow.KnowledgeBaseOutput, error) {
	if status == nil {
		return nil, &workflow.MissingInputError{Key: "collectionStatus"}
	}

	current, err := r.search.GetCollection(ctx, status.Name)
	if err != nil {
		return nil, err
	}
	if current.Status != workflow.CollectionActive {
		return nil, &workflow.NotActiveError{Resource: "collection", Status: current.Status}
	}

	arn := current.ARN
	if arn == "" {
		arn = status.ARN
	}

	kb, err := r.agents.CreateKnowledgeBase(ctx, bedrock.CreateKnowledgeBaseInput{
		Name:              workflow.KnowledgeBaseName(in.ChatbotID),
		Description:       fmt.Sprintf("Knowledge base for chatbot %s", in.ChatbotID),
		RoleARN:           r.options.KnowledgeBaseRoleARN,
		EmbeddingModelARN: r.options.EmbeddingModelARN,
		CollectionARN:     arn,
		VectorIndexName:   VectorIndexName,
		VectorField:       VectorField,
		TextField:         TextField,
		MetadataField:     MetadataField,
	})
	if err != nil {
		return nil, err
	}

	return &workflow.KnowledgeBaseOutput{
		KnowledgeBaseID: kb.ID,
		Name:            kb.Name,
		ChatbotID:       in.ChatbotID,
	}, nil
}

// associateKnowledgeBase attaches the knowledge base to the agent's draft.
func (r *Runtime) associateKnowledgeBase(ctx context.Context, agent *workflow.AgentOutput, kb *workflow.KnowledgeBaseOutput) (*workflow.AssociationOutput, error) {
	if agent == nil {
		return nil, &workflow.MissingInputError{Key: "agent"}
	}
	if kb == nil {
		return nil, &workflow.MissingInputError{Key: "knowledgeBase"}
	}

	description := fmt.Sprintf("Knowledge base association for chatbot %s", kb.ChatbotID)

	assoc, err := r.agents.AssociateKnowledgeBase(ctx, agent.AgentID, kb.KnowledgeBaseID, description)
	if err != nil {
		return nil, err
	}

	return &workflow.AssociationOutput{
		AgentID:         assoc.AgentID,
		KnowledgeBaseID: assoc.KnowledgeBaseID,
		State:           assoc.State,
	}, nil
}
