// Package workflow defines the domain types for the agent provisioning
// workflow: the execution input, the typed execution context threaded
// through each step, the step output structures, and the name derivation
// rules the steps apply.
package workflow

import "time"

// Collection lifecycle statuses reported by the search service.
const (
	CollectionCreating = "CREATING"
	CollectionActive   = "ACTIVE"
	CollectionFailed   = "FAILED"
	CollectionDeleting = "DELETING"
)

// Input starts one provisioning execution. ChatbotID and ProjectID identify
// the tenant record; the remaining fields describe the agent to stand up.
type Input struct {
	ChatbotID   string   `json:"chatbotId"`
	ProjectID   string   `json:"projectId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	Documents   []string `json:"documents"`
}

// Validate checks the structurally required identifiers. Missing identifiers
// fail the execution before any step runs; they are never defaulted.
func (in Input) Validate() error {
	if in.ChatbotID == "" {
		return &MissingInputError{Key: "chatbotId"}
	}
	if in.ProjectID == "" {
		return &MissingInputError{Key: "projectId"}
	}
	return nil
}

// CollectionOutput is produced by the create-collection step.
type CollectionOutput struct {
	Name          string `json:"collectionName"`
	ARN           string `json:"collectionArn"`
	Status        string `json:"status"`
	VPCEndpointID string `json:"vpcEndpointId,omitempty"`
}

// StatusOutput is produced by each collection status check.
type StatusOutput struct {
	Name      string `json:"collectionName"`
	ARN       string `json:"collectionArn"`
	Status    string `json:"status"`
	ChatbotID string `json:"chatbotId"`
}

// Pending reports whether the collection is still converging and the
// orchestrator should re-enter the wait state.
func (s StatusOutput) Pending() bool {
	return s.Status == CollectionCreating
}

// AgentOutput is produced by the create-agent step.
type AgentOutput struct {
	AgentID   string `json:"agentId"`
	AgentARN  string `json:"agentArn"`
	AgentName string `json:"agentName"`
	ChatbotID string `json:"chatbotId"`
	ProjectID string `json:"projectId"`
}

// KnowledgeBaseOutput is produced by the create-knowledge-base step.
type KnowledgeBaseOutput struct {
	KnowledgeBaseID string `json:"knowledgeBaseId"`
	Name            string `json:"name"`
	ChatbotID       string `json:"chatbotId"`
}

// AssociationOutput is produced by the associate-knowledge-base step.
type AssociationOutput struct {
	AgentID         string `json:"agentId"`
	KnowledgeBaseID string `json:"knowledgeBaseId"`
	State           string `json:"state,omitempty"`
}

// ActionGroup describes one registered action group. The workflow treats
// the descriptor as opaque beyond its identifiers.
type ActionGroup struct {
	ActionGroupID string `json:"actionGroupId"`
	Name          string `json:"name"`
}

// ActionGroupOutput is produced by the create-action-group step.
type ActionGroupOutput struct {
	AgentVersion string        `json:"agentVersion"`
	Groups       []ActionGroup `json:"groups"`
}

// PrepareOutput is produced by the prepare-agent step.
type PrepareOutput struct {
	AgentID      string `json:"agentId"`
	AgentStatus  string `json:"agentStatus"`
	AgentVersion string `json:"agentVersion,omitempty"`
}

// AliasOutput is produced by the create-agent-alias step.
type AliasOutput struct {
	AliasID   string `json:"agentAliasId"`
	AliasName string `json:"agentAliasName"`
}

// Context is the execution envelope threaded through every step. Each step's
// output occupies its own field; the orchestrator owns all writes and hands
// steps narrowed read-only inputs, so sibling outputs can never collide.
// A nil field means the step has not produced output yet.
type Context struct {
	Input Input

	Collection    *CollectionOutput
	Status        *StatusOutput
	Agent         *AgentOutput
	KnowledgeBase *KnowledgeBaseOutput
	Association   *AssociationOutput
	ActionGroups  *ActionGroupOutput
	Prepared      *PrepareOutput
	Alias         *AliasOutput
}

// Result is the final output of a successful execution.
type Result struct {
	ChatbotID    string    `json:"chatbotId"`
	ProjectID    string    `json:"projectId"`
	AgentID      string    `json:"agentId"`
	AgentARN     string    `json:"agentArn"`
	AgentAliasID string    `json:"agentAliasId"`
	CompletedAt  time.Time `json:"completedAt"`
}
