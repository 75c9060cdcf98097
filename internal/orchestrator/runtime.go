// Package orchestrator implements the agent provisioning workflow: a typed
// state machine that stands up a vector search collection, a Bedrock agent,
// its knowledge base and action group, prepares the agent, creates an alias,
// and persists the binding to the chatbot record.
package orchestrator

import (
	"log/slog"
	"time"

	"github.com/JaimeStill/foundry/internal/bedrock"
	"github.com/JaimeStill/foundry/internal/chatbots"
	"github.com/JaimeStill/foundry/internal/search"
)

// Vector index layout expected by the knowledge base. The index itself is
// provisioned out of band; these names bind the knowledge base to it.
const (
	VectorIndexName = "bedrock-kb-index"
	VectorField     = "bedrock_embedding"
	TextField       = "bedrock_text"
	MetadataField   = "bedrock_metadata"
)

const (
	defaultInitialDelay = time.Minute
	defaultPollInterval = time.Minute
	defaultDeadline     = 30 * time.Minute
)

// Options carries the account-level parameters every execution shares:
// the service roles, the embedding model, the action group executor, and
// the orchestrator's timing knobs.
type Options struct {
	// AgentRoleARN is the execution role assumed by created agents.
	AgentRoleARN string
	// KnowledgeBaseRoleARN is the role assumed by created knowledge bases.
	KnowledgeBaseRoleARN string
	// EmbeddingModelARN selects the embedding model for knowledge bases.
	EmbeddingModelARN string
	// ActionFunctionARN is the function registered as the action group
	// executor. Resolved from configuration, never discovered at runtime.
	ActionFunctionARN string
	// ActionGroupSchema is the OpenAPI payload registered with the action
	// group.
	ActionGroupSchema string
	// EncryptionKeyARN optionally encrypts created agents with a customer
	// managed key. Empty means the service default.
	EncryptionKeyARN string

	// InitialDelay is the pause between collection creation and the first
	// status check.
	InitialDelay time.Duration
	// PollInterval is the pause between subsequent status checks.
	PollInterval time.Duration
	// Deadline bounds the whole execution.
	Deadline time.Duration
}

func (o Options) normalize() Options {
	if o.InitialDelay <= 0 {
		o.InitialDelay = defaultInitialDelay
	}
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.Deadline <= 0 {
		o.Deadline = defaultDeadline
	}
	return o
}

// Runtime bundles the systems the step handlers operate on.
type Runtime struct {
	agents   bedrock.System
	search   search.System
	chatbots chatbots.System
	options  Options
	logger   *slog.Logger
}

// NewRuntime creates an orchestrator runtime over the given systems.
func NewRuntime(agents bedrock.System, collections search.System, records chatbots.System, options Options, logger *slog.Logger) *Runtime {
	return &Runtime{
		agents:   agents,
		search:   collections,
		chatbots: records,
		options:  options.normalize(),
		logger:   logger.With("system", "workflow"),
	}
}
