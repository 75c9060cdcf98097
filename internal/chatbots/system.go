package chatbots

import "context"

// System defines the public contract for chatbot domain operations.
type System interface {
	Handler() *Handler

	// Find returns the chatbot record for the composite key.
	Find(ctx context.Context, projectID, chatbotID string) (*Chatbot, error)
	// Create registers a new chatbot record in PENDING status.
	Create(ctx context.Context, cmd CreateCommand) (*Chatbot, error)
	// Activate flips a PENDING record to ACTIVE, writes the agent
	// identifiers, and upserts the agent detail record in one transaction.
	// Returns ErrNotPending if the record has already left PENDING.
	Activate(ctx context.Context, cmd ActivateCommand) error
	// FindAgentDetail returns the agent binding for a chatbot.
	FindAgentDetail(ctx context.Context, chatbotID string) (*AgentDetail, error)
}
