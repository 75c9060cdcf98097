// Package chatbots implements the tenant chatbot domain: the chatbot record
// keyed by (id, projectId), the agent detail record written when
// provisioning completes, and the data access layer over both.
package chatbots

import (
	"encoding/json"
	"time"
)

// Chatbot lifecycle statuses. Transitions are monotonic: once a record
// leaves PENDING it is never reopened; reruns provision through a new
// workflow execution instead of mutating history.
const (
	StatusPending = "PENDING"
	StatusActive  = "ACTIVE"
	StatusFailed  = "FAILED"
)

// Chatbot is a tenant chatbot record. Agent fields are nil until the
// provisioning workflow's final step writes them.
type Chatbot struct {
	ID               string    `json:"id"`
	ProjectID        string    `json:"projectId"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	AgentInstruction string    `json:"agentInstruction"`
	FoundationModel  string    `json:"foundationModel"`
	SessionTimeout   int       `json:"sessionTimeout"`
	Language         string    `json:"language"`
	Status           string    `json:"status"`
	AgentID          *string   `json:"agentId"`
	AgentARN         *string   `json:"agentArn"`
	AgentAliasID     *string   `json:"agentAliasId"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// AgentDetail is the per-chatbot agent binding written once per successful
// workflow completion. ActionGroups holds the registered action group
// descriptors as opaque JSON.
type AgentDetail struct {
	ChatbotID       string          `json:"chatbotId"`
	ProjectID       string          `json:"projectId"`
	AgentID         string          `json:"agentId"`
	AgentARN        string          `json:"agentArn"`
	AgentAliasID    string          `json:"agentAliasId"`
	KnowledgeBaseID *string         `json:"knowledgeBaseId"`
	ActionGroups    json.RawMessage `json:"actionGroups"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// CreateCommand carries the data needed to register a new chatbot record.
// The record is created in PENDING status.
type CreateCommand struct {
	ID               string `json:"id"`
	ProjectID        string `json:"projectId"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	AgentInstruction string `json:"agentInstruction"`
	FoundationModel  string `json:"foundationModel"`
	SessionTimeout   int    `json:"sessionTimeout"`
	Language         string `json:"language"`
}

// ActivateCommand flips a PENDING chatbot to ACTIVE, writes the agent
// identifiers, and upserts the agent detail record.
type ActivateCommand struct {
	ChatbotID       string
	ProjectID       string
	AgentID         string
	AgentARN        string
	AgentAliasID    string
	KnowledgeBaseID *string
	ActionGroups    json.RawMessage
}
