package config

import (
	"fmt"
	"os"
	"time"

	"github.com/JaimeStill/foundry/internal/orchestrator"
)

const (
	EnvWorkflowAgentRoleARN         = "FOUNDRY_WORKFLOW_AGENT_ROLE_ARN"
	EnvWorkflowKnowledgeBaseRoleARN = "FOUNDRY_WORKFLOW_KB_ROLE_ARN"
	EnvWorkflowEmbeddingModelARN    = "FOUNDRY_WORKFLOW_EMBEDDING_MODEL_ARN"
	EnvWorkflowActionFunctionARN    = "FOUNDRY_WORKFLOW_ACTION_FUNCTION_ARN"
	EnvWorkflowActionSchemaFile     = "FOUNDRY_WORKFLOW_ACTION_SCHEMA_FILE"
	EnvWorkflowEncryptionKeyARN     = "FOUNDRY_WORKFLOW_ENCRYPTION_KEY_ARN"
	EnvWorkflowInitialDelay         = "FOUNDRY_WORKFLOW_INITIAL_DELAY"
	EnvWorkflowPollInterval         = "FOUNDRY_WORKFLOW_POLL_INTERVAL"
	EnvWorkflowDeadline             = "FOUNDRY_WORKFLOW_DEADLINE"
)

// defaultActionSchema is registered when no schema file is configured.
const defaultActionSchema = `{"openapi":"3.0.0","info":{"title":"Chatbot Actions","version":"1.0.0"},"paths":{}}`

// WorkflowConfig holds the account-level provisioning parameters and the
// orchestrator's timing knobs.
type WorkflowConfig struct {
	AgentRoleARN         string `toml:"agent_role_arn"`
	KnowledgeBaseRoleARN string `toml:"kb_role_arn"`
	EmbeddingModelARN    string `toml:"embedding_model_arn"`
	ActionFunctionARN    string `toml:"action_function_arn"`
	ActionSchemaFile     string `toml:"action_schema_file"`
	EncryptionKeyARN     string `toml:"encryption_key_arn"`
	InitialDelay         string `toml:"initial_delay"`
	PollInterval         string `toml:"poll_interval"`
	Deadline             string `toml:"deadline"`
}

// Options resolves the orchestrator options, reading the action schema file
// when one is configured.
func (c *WorkflowConfig) Options() (orchestrator.Options, error) {
	schema := defaultActionSchema
	if c.ActionSchemaFile != "" {
		data, err := os.ReadFile(c.ActionSchemaFile)
		if err != nil {
			return orchestrator.Options{}, fmt.Errorf("read action schema: %w", err)
		}
		schema = string(data)
	}

	initialDelay, err := time.ParseDuration(c.InitialDelay)
	if err != nil {
		return orchestrator.Options{}, fmt.Errorf("invalid initial_delay: %w", err)
	}
	pollInterval, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return orchestrator.Options{}, fmt.Errorf("invalid poll_interval: %w", err)
	}
	deadline, err := time.ParseDuration(c.Deadline)
	if err != nil {
		return orchestrator.Options{}, fmt.Errorf("invalid deadline: %w", err)
	}

	return orchestrator.Options{
		AgentRoleARN:         c.AgentRoleARN,
		KnowledgeBaseRoleARN: c.KnowledgeBaseRoleARN,
		EmbeddingModelARN:    c.EmbeddingModelARN,
		ActionFunctionARN:    c.ActionFunctionARN,
		ActionGroupSchema:    schema,
		EncryptionKeyARN:     c.EncryptionKeyARN,
		InitialDelay:         initialDelay,
		PollInterval:         pollInterval,
		Deadline:             deadline,
	}, nil
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *WorkflowConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *WorkflowConfig) Merge(overlay *WorkflowConfig) {
	if overlay.AgentRoleARN != "" {
		c.AgentRoleARN = overlay.AgentRoleARN
	}
	if overlay.KnowledgeBaseRoleARN != "" {
		c.KnowledgeBaseRoleARN = overlay.KnowledgeBaseRoleARN
	}
	if overlay.EmbeddingModelARN != "" {
		c.EmbeddingModelARN = overlay.EmbeddingModelARN
	}
	if overlay.ActionFunctionARN != "" {
		c.ActionFunctionARN = overlay.ActionFunctionARN
	}
	if overlay.ActionSchemaFile != "" {
		c.ActionSchemaFile = overlay.ActionSchemaFile
	}
	if overlay.EncryptionKeyARN != "" {
		c.EncryptionKeyARN = overlay.EncryptionKeyARN
	}
	if overlay.InitialDelay != "" {
		c.InitialDelay = overlay.InitialDelay
	}
	if overlay.PollInterval != "" {
		c.PollInterval = overlay.PollInterval
	}
	if overlay.Deadline != "" {
		c.Deadline = overlay.Deadline
	}
}

func (c *WorkflowConfig) loadDefaults() {
	if c.InitialDelay == "" {
		c.InitialDelay = "1m"
	}
	if c.PollInterval == "" {
		c.PollInterval = "1m"
	}
	if c.Deadline == "" {
		c.Deadline = "30m"
	}
}

func (c *WorkflowConfig) loadEnv() {
	if v := os.Getenv(EnvWorkflowAgentRoleARN); v != "" {
		c.AgentRoleARN = v
	}
	if v := os.Getenv(EnvWorkflowKnowledgeBaseRoleARN); v != "" {
		c.KnowledgeBaseRoleARN = v
	}
	if v := os.Getenv(EnvWorkflowEmbeddingModelARN); v != "" {
		c.EmbeddingModelARN = v
	}
	if v := os.Getenv(EnvWorkflowActionFunctionARN); v != "" {
		c.ActionFunctionARN = v
	}
	if v := os.Getenv(EnvWorkflowActionSchemaFile); v != "" {
		c.ActionSchemaFile = v
	}
	if v := os.Getenv(EnvWorkflowEncryptionKeyARN); v != "" {
		c.EncryptionKeyARN = v
	}
	if v := os.Getenv(EnvWorkflowInitialDelay); v != "" {
		c.InitialDelay = v
	}
	if v := os.Getenv(EnvWorkflowPollInterval); v != "" {
		c.PollInterval = v
	}
	if v := os.Getenv(EnvWorkflowDeadline); v != "" {
		c.Deadline = v
	}
}

func (c *WorkflowConfig) validate() error {
	if c.AgentRoleARN == "" {
		return fmt.Errorf("agent_role_arn required")
	}
	if c.KnowledgeBaseRoleARN == "" {
		return fmt.Errorf("kb_role_arn required")
	}
	if c.EmbeddingModelARN == "" {
		return fmt.Errorf("embedding_model_arn required")
	}
	if c.ActionFunctionARN == "" {
		return fmt.Errorf("action_function_arn required")
	}
	if _, err := time.ParseDuration(c.InitialDelay); err != nil {
		return fmt.Errorf("invalid initial_delay: %w", err)
	}
	if _, err := time.ParseDuration(c.PollInterval); err != nil {
		return fmt.Errorf("invalid poll_interval: %w", err)
	}
	if _, err := time.ParseDuration(c.Deadline); err != nil {
		return fmt.Errorf("invalid deadline: %w", err)
	}
	return nil
}
