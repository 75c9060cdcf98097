package orchestrator

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/foundry/workflow"
)

// Stage names attached to step failures.
const (
	StageCreateCollection = "create-collection"
	StageAwaitCollection  = "await-collection"
	StageCreateAgent      = "create-agent"
	StageKnowledgeBase    = "create-knowledge-base"
	StageActionGroup      = "create-action-group"
	StagePrepareAgent     = "prepare-agent"
	StageCreateAlias      = "create-agent-alias"
	StagePersist          = "persist-agent"
)

// Execute runs one provisioning execution to completion. The returned
// context carries every step's output for observability; on failure the
// context holds the outputs produced before the failing step and the error
// names the stage. A deadline overrun surfaces as ErrTimedOut.
func (r *Runtime) Execute(ctx context.Context, in workflow.Input) (*workflow.Context, *workflow.Result, error) {
	wc := &workflow.Context{Input: in}

	if err := in.Validate(); err != nil {
		return wc, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.options.Deadline)
	defer cancel()

	result, err := r.run(ctx, wc)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = &workflow.StepError{Stage: stageOf(err), Err: workflow.ErrTimedOut}
		}
		r.logger.ErrorContext(ctx, "execution failed",
			"chatbot_id", in.ChatbotID, "error", err)
		return wc, nil, err
	}

	return wc, result, nil
}

func (r *Runtime) run(ctx context.Context, wc *workflow.Context) (*workflow.Result, error) {
	record, err := r.loadChatbot(ctx, wc.Input)
	if err != nil {
		return nil, &workflow.StepError{Stage: StageCreateAgent, Err: err}
	}

	wc.Collection, err = r.createCollection(ctx, wc.Input)
	if err != nil {
		return nil, &workflow.StepError{Stage: StageCreateCollection, Err: err}
	}

	wc.Status, err = r.awaitCollection(ctx, wc.Input, wc.Collection)
	if err != nil {
		return nil, &workflow.StepError{Stage: StageAwaitCollection, Err: err}
	}

	wc.Agent, err = r.createAgent(ctx, wc.Input, record)
	if err != nil {
		return nil, &workflow.StepError{Stage: StageCreateAgent, Err: err}
	}

	// The knowledge base and action group branches touch disjoint context
	// fields, so they run concurrently; either failure cancels the other.
	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		kb, err := r.createKnowledgeBase(gctx, wc.Input, wc.Status)
		if err != nil {
			return &workflow.StepError{Stage: StageKnowledgeBase, Err: err}
		}
		wc.KnowledgeBase = kb

		assoc, err := r.associateKnowledgeBase(gctx, wc.Agent, kb)
		if err != nil {
			return &workflow.StepError{Stage: StageKnowledgeBase, Err: err}
		}
		wc.Association = assoc
		return nil
	})

	group.Go(func() error {
		groups, err := r.createActionGroup(gctx, wc.Input, wc.Agent)
		if err != nil {
			return &workflow.StepError{Stage: StageActionGroup, Err: err}
		}
		wc.ActionGroups = groups
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	wc.Prepared, err = r.prepareAgent(ctx, wc.Agent)
	if err != nil {
		return nil, &workflow.StepError{Stage: StagePrepareAgent, Err: err}
	}

	wc.Alias, err = r.createAlias(ctx, wc.Agent, record)
	if err != nil {
		return nil, &workflow.StepError{Stage: StageCreateAlias, Err: err}
	}

	result, err := r.finalize(ctx, wc)
	if err != nil {
		return nil, &workflow.StepError{Stage: StagePersist, Err: err}
	}

	return result, nil
}

// stageOf recovers the stage name from a wrapped step failure so the
// timeout error keeps its position in the workflow.
func stageOf(err error) string {
	var step *workflow.StepError
	if errors.As(err, &step) {
		return step.Stage
	}
	return StageAwaitCollection
}
