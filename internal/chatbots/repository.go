package chatbots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/foundry/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a chatbot repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "chatbots"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

const chatbotColumns = `id, project_id, name, description, agent_instruction,
	foundation_model, session_timeout_seconds, language, status,
	agent_id, agent_arn, agent_alias_id, created_at, updated_at`

func (r *repo) Find(ctx context.Context, projectID, chatbotID string) (*Chatbot, error) {
	q := fmt.Sprintf(`SELECT %s FROM chatbots WHERE id = $1 AND project_id = $2`, chatbotColumns)

	c, err := repository.QueryOne(ctx, r.db, q, []any{chatbotID, projectID}, scanChatbot)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Chatbot, error) {
	if cmd.ID == "" || cmd.ProjectID == "" || cmd.Name == "" {
		return nil, fmt.Errorf("%w: id, projectId, and name are required", ErrInvalidInput)
	}

	q := fmt.Sprintf(`
		INSERT INTO chatbots(id, project_id, name, description, agent_instruction,
			foundation_model, session_timeout_seconds, language, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`, chatbotColumns)

	args := []any{
		cmd.ID,
		cmd.ProjectID,
		cmd.Name,
		cmd.Description,
		cmd.AgentInstruction,
		cmd.FoundationModel,
		cmd.SessionTimeout,
		cmd.Language,
		StatusPending,
	}

	c, err := repository.QueryOne(ctx, r.db, q, args, scanChatbot)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) Activate(ctx context.Context, cmd ActivateCommand) error {
	update := `
		UPDATE chatbots
		SET agent_id = $1, agent_arn = $2, agent_alias_id = $3,
			status = $4, updated_at = now()
		WHERE id = $5 AND project_id = $6 AND status = $7`

	upsert := `
		INSERT INTO agent_details(chatbot_id, project_id, agent_id, agent_arn,
			agent_alias_id, knowledge_base_id, action_groups, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (chatbot_id) DO UPDATE SET
			project_id = EXCLUDED.project_id,
			agent_id = EXCLUDED.agent_id,
			agent_arn = EXCLUDED.agent_arn,
			agent_alias_id = EXCLUDED.agent_alias_id,
			knowledge_base_id = EXCLUDED.knowledge_base_id,
			action_groups = EXCLUDED.action_groups,
			status = EXCLUDED.status`

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(ctx, tx, update,
			cmd.AgentID, cmd.AgentARN, cmd.AgentAliasID,
			StatusActive, cmd.ChatbotID, cmd.ProjectID, StatusPending,
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return struct{}{}, r.classifyActivateMiss(ctx, cmd)
			}
			return struct{}{}, fmt.Errorf("update chatbot: %w", err)
		}

		groups := cmd.ActionGroups
		if len(groups) == 0 {
			groups = []byte("[]")
		}

		if _, err := tx.ExecContext(ctx, upsert,
			cmd.ChatbotID, cmd.ProjectID, cmd.AgentID, cmd.AgentARN,
			cmd.AgentAliasID, cmd.KnowledgeBaseID, groups, StatusActive,
		); err != nil {
			return struct{}{}, fmt.Errorf("upsert agent detail: %w", err)
		}

		return struct{}{}, nil
	})

	return err
}

// classifyActivateMiss distinguishes a missing record from a record that has
// already left PENDING, so the caller gets the precise domain error.
func (r *repo) classifyActivateMiss(ctx context.Context, cmd ActivateCommand) error {
	if _, err := r.Find(ctx, cmd.ProjectID, cmd.ChatbotID); err != nil {
		return err
	}
	return ErrNotPending
}

func (r *repo) FindAgentDetail(ctx context.Context, chatbotID string) (*AgentDetail, error) {
	q := `
		SELECT chatbot_id, project_id, agent_id, agent_arn, agent_alias_id,
			knowledge_base_id, action_groups, status, created_at
		FROM agent_details
		WHERE chatbot_id = $1`

	d, err := repository.QueryOne(ctx, r.db, q, []any{chatbotID}, scanAgentDetail)
	if err != nil {
		return nil, repository.MapError(err, ErrDetailNotFound, ErrDuplicate)
	}
	return &d, nil
}

func scanChatbot(s repository.Scanner) (Chatbot, error) {
	var c Chatbot
	err := s.Scan(
		&c.ID,
		&c.ProjectID,
		&c.Name,
		&c.Description,
		&c.AgentInstruction,
		&c.FoundationModel,
		&c.SessionTimeout,
		&c.Language,
		&c.Status,
		&c.AgentID,
		&c.AgentARN,
		&c.AgentAliasID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func scanAgentDetail(s repository.Scanner) (AgentDetail, error) {
	var d AgentDetail
	var groups []byte
	err := s.Scan(
		&d.ChatbotID,
		&d.ProjectID,
		&d.AgentID,
		&d.AgentARN,
		&d.AgentAliasID,
		&d.KnowledgeBaseID,
		&groups,
		&d.Status,
		&d.CreatedAt,
	)
	d.ActionGroups = groups
	return d, err
}
