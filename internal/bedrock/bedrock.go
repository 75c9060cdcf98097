// Package bedrock provides a typed façade over the Bedrock agent service:
// one operation per backing call, each either returning the created
// resource's identifiers or a BackingServiceError. Operations are
// single-attempt; retry policy belongs to the caller.
package bedrock

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	agenttypes "github.com/aws/aws-sdk-go-v2/service/bedrockagent/types"

	"github.com/JaimeStill/foundry/workflow"
)

// AgentAPI is the subset of the Bedrock agent client the façade uses.
// Satisfied by *bedrockagent.Client.
type AgentAPI interface {
	CreateAgent(ctx context.Context, params *bedrockagent.CreateAgentInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.CreateAgentOutput, error)
	ListAgentVersions(ctx context.Context, params *bedrockagent.ListAgentVersionsInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.ListAgentVersionsOutput, error)
	CreateAgentActionGroup(ctx context.Context, params *bedrockagent.CreateAgentActionGroupInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.CreateAgentActionGroupOutput, error)
	CreateKnowledgeBase(ctx context.Context, params *bedrockagent.CreateKnowledgeBaseInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.CreateKnowledgeBaseOutput, error)
	AssociateAgentKnowledgeBase(ctx context.Context, params *bedrockagent.AssociateAgentKnowledgeBaseInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.AssociateAgentKnowledgeBaseOutput, error)
	PrepareAgent(ctx context.Context, params *bedrockagent.PrepareAgentInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.PrepareAgentOutput, error)
	CreateAgentAlias(ctx context.Context, params *bedrockagent.CreateAgentAliasInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.CreateAgentAliasOutput, error)
}

// Agent identifies a created agent resource.
type Agent struct {
	ID   string
	ARN  string
	Name string
}

// KnowledgeBase identifies a created knowledge base resource.
type KnowledgeBase struct {
	ID   string
	Name string
}

// Association describes an agent/knowledge-base association.
type Association struct {
	AgentID         string
	KnowledgeBaseID string
	State           string
}

// ActionGroup identifies a created action group resource.
type ActionGroup struct {
	ID   string
	Name string
}

// PreparedAgent describes an agent after the prepare transition.
type PreparedAgent struct {
	AgentID      string
	AgentStatus  string
	AgentVersion string
}

// Alias identifies a created agent alias.
type Alias struct {
	ID   string
	ARN  string
	Name string
}

// CreateAgentInput carries the parameters for agent creation. The
// encryption key is forwarded only when set.
type CreateAgentInput struct {
	Name             string
	Instruction      string
	FoundationModel  string
	Description      string
	RoleARN          string
	SessionTimeout   int
	EncryptionKeyARN string
}

// CreateKnowledgeBaseInput carries the parameters for knowledge base
// creation backed by a vector search collection.
type CreateKnowledgeBaseInput struct {
	Name              string
	Description       string
	RoleARN           string
	EmbeddingModelARN string
	CollectionARN     string
	VectorIndexName   string
	VectorField       string
	TextField         string
	MetadataField     string
}

// CreateActionGroupInput registers one action group against a prepared
// agent version, executed by the given function reference.
type CreateActionGroupInput struct {
	AgentID      string
	AgentVersion string
	Name         string
	Description  string
	FunctionARN  string
	APISchema    string
}

// System defines the agent service contract.
type System interface {
	CreateAgent(ctx context.Context, in CreateAgentInput) (*Agent, error)
	// LatestAgentVersion returns the most recent version of the agent;
	// exactly one version is expected at provisioning time.
	LatestAgentVersion(ctx context.Context, agentID string) (string, error)
	CreateActionGroup(ctx context.Context, in CreateActionGroupInput) (*ActionGroup, error)
	CreateKnowledgeBase(ctx context.Context, in CreateKnowledgeBaseInput) (*KnowledgeBase, error)
	AssociateKnowledgeBase(ctx context.Context, agentID, knowledgeBaseID, description string) (*Association, error)
	PrepareAgent(ctx context.Context, agentID string) (*PreparedAgent, error)
	CreateAlias(ctx context.Context, agentID, aliasName string) (*Alias, error)
	Runtime
}

type system struct {
	agents  AgentAPI
	runtime RuntimeAPI
	logger  *slog.Logger
}

// New creates a bedrock system over the given service clients.
func New(agents AgentAPI, runtime RuntimeAPI, logger *slog.Logger) System {
	return &system{
		agents:  agents,
		runtime: runtime,
		logger:  logger.With("system", "bedrock"),
	}
}

func (s *system) CreateAgent(ctx context.Context, in CreateAgentInput) (*Agent, error) {
	params := &bedrockagent.CreateAgentInput{
		AgentName:               aws.String(in.Name),
		Instruction:             aws.String(in.Instruction),
		FoundationModel:         aws.String(in.FoundationModel),
		AgentResourceRoleArn:    aws.String(in.RoleARN),
		Description:             aws.String(in.Description),
		IdleSessionTTLInSeconds: aws.Int32(int32(in.SessionTimeout)),
	}
	if in.EncryptionKeyARN != "" {
		params.CustomerEncryptionKeyArn = aws.String(in.EncryptionKeyARN)
	}

	out, err := s.agents.CreateAgent(ctx, params)
	if err != nil {
		return nil, s.fail(ctx, "create agent", err)
	}

	agent := &Agent{
		ID:   aws.ToString(out.Agent.AgentId),
		ARN:  aws.ToString(out.Agent.AgentArn),
		Name: aws.ToString(out.Agent.AgentName),
	}

	s.logger.InfoContext(ctx, "agent created", "agent_id", agent.ID, "name", agent.Name)
	return agent, nil
}

func (s *system) LatestAgentVersion(ctx context.Context, agentID string) (string, error) {
	out, err := s.agents.ListAgentVersions(ctx, &bedrockagent.ListAgentVersionsInput{
		AgentId:    aws.String(agentID),
		MaxResults: aws.Int32(1),
	})
	if err != nil {
		return "", s.fail(ctx, "list agent versions", err)
	}

	if len(out.AgentVersionSummaries) == 0 {
		return "", &workflow.NotFoundError{Resource: "agent version", ID: agentID}
	}

	return aws.ToString(out.AgentVersionSummaries[0].AgentVersion), nil
}

func (s *system) CreateActionGroup(ctx context.Context, in CreateActionGroupInput) (*ActionGroup, error) {
	out, err := s.agents.CreateAgentActionGroup(ctx, &bedrockagent.CreateAgentActionGroupInput{
		AgentId:         aws.String(in.AgentID),
		AgentVersion:    aws.String(in.AgentVersion),
		ActionGroupName: aws.String(in.Name),
		Description:     aws.String(in.Description),
		ActionGroupExecutor: &agenttypes.ActionGroupExecutorMemberLambda{
			Value: in.FunctionARN,
		},
		ApiSchema: &agenttypes.APISchemaMemberPayload{
			Value: in.APISchema,
		},
	})
	if err != nil {
		return nil, s.fail(ctx, "create action group", err)
	}

	group := &ActionGroup{
		ID:   aws.ToString(out.AgentActionGroup.ActionGroupId),
		Name: aws.ToString(out.AgentActionGroup.ActionGroupName),
	}

	s.logger.InfoContext(ctx, "action group created", "agent_id", in.AgentID, "action_group_id", group.ID)
	return group, nil
}

func (s *system) CreateKnowledgeBase(ctx context.Context, in CreateKnowledgeBaseInput) (*KnowledgeBase, error) {
	out, err := s.agents.CreateKnowledgeBase(ctx, &bedrockagent.CreateKnowledgeBaseInput{
		Name:        aws.String(in.Name),
		Description: aws.String(in.Description),
		RoleArn:     aws.String(in.RoleARN),
		KnowledgeBaseConfiguration: &agenttypes.KnowledgeBaseConfiguration{
			Type: agenttypes.KnowledgeBaseTypeVector,
			VectorKnowledgeBaseConfiguration: &agenttypes.VectorKnowledgeBaseConfiguration{
				EmbeddingModelArn: aws.String(in.EmbeddingModelARN),
			},
		},
		StorageConfiguration: &agenttypes.StorageConfiguration{
			Type: agenttypes.KnowledgeBaseStorageTypeOpensearchServerless,
			OpensearchServerlessConfiguration: &agenttypes.OpenSearchServerlessConfiguration{
				CollectionArn:   aws.String(in.CollectionARN),
				VectorIndexName: aws.String(in.VectorIndexName),
				FieldMapping: &agenttypes.OpenSearchServerlessFieldMapping{
					VectorField:   aws.String(in.VectorField),
					TextField:     aws.String(in.TextField),
					MetadataField: aws.String(in.MetadataField),
				},
			},
		},
	})
	if err != nil {
		return nil, s.fail(ctx, "create knowledge base", err)
	}

	kb := &KnowledgeBase{
		ID:   aws.ToString(out.KnowledgeBase.KnowledgeBaseId),
		Name: aws.ToString(out.KnowledgeBase.Name),
	}

	s.logger.InfoContext(ctx, "knowledge base created", "knowledge_base_id", kb.ID, "name", kb.Name)
	return kb, nil
}

func (s *system) AssociateKnowledgeBase(ctx context.Context, agentID, knowledgeBaseID, description string) (*Association, error) {
	out, err := s.agents.AssociateAgentKnowledgeBase(ctx, &bedrockagent.AssociateAgentKnowledgeBaseInput{
		AgentId:         aws.String(agentID),
		AgentVersion:    aws.String(draftAgentVersion),
		KnowledgeBaseId: aws.String(knowledgeBaseID),
		Description:     aws.String(description),
	})
	if err != nil {
		return nil, s.fail(ctx, "associate knowledge base", err)
	}

	assoc := &Association{
		AgentID:         agentID,
		KnowledgeBaseID: knowledgeBaseID,
	}
	if out.AgentKnowledgeBase != nil {
		assoc.State = string(out.AgentKnowledgeBase.KnowledgeBaseState)
	}

	s.logger.InfoContext(ctx, "knowledge base associated", "agent_id", agentID, "knowledge_base_id", knowledgeBaseID)
	return assoc, nil
}

func (s *system) PrepareAgent(ctx context.Context, agentID string) (*PreparedAgent, error) {
	out, err := s.agents.PrepareAgent(ctx, &bedrockagent.PrepareAgentInput{
		AgentId: aws.String(agentID),
	})
	if err != nil {
		return nil, s.fail(ctx, "prepare agent", err)
	}

	prepared := &PreparedAgent{
		AgentID:      aws.ToString(out.AgentId),
		AgentStatus:  string(out.AgentStatus),
		AgentVersion: aws.ToString(out.AgentVersion),
	}

	s.logger.InfoContext(ctx, "agent prepared", "agent_id", prepared.AgentID, "status", prepared.AgentStatus)
	return prepared, nil
}

func (s *system) CreateAlias(ctx context.Context, agentID, aliasName string) (*Alias, error) {
	out, err := s.agents.CreateAgentAlias(ctx, &bedrockagent.CreateAgentAliasInput{
		AgentId:        aws.String(agentID),
		AgentAliasName: aws.String(aliasName),
	})
	if err != nil {
		return nil, s.fail(ctx, "create agent alias", err)
	}

	alias := &Alias{
		ID:   aws.ToString(out.AgentAlias.AgentAliasId),
		ARN:  aws.ToString(out.AgentAlias.AgentAliasArn),
		Name: aws.ToString(out.AgentAlias.AgentAliasName),
	}

	s.logger.InfoContext(ctx, "agent alias created", "agent_id", agentID, "alias_id", alias.ID)
	return alias, nil
}

// Knowledge base associations attach to the editable draft version.
const draftAgentVersion = "DRAFT"
