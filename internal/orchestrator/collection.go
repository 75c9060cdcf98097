package orchestrator

import (
	"context"
	"time"

	"github.com/JaimeStill/foundry/workflow"
)

// createCollection provisions the vector search collection: encryption
// policy, network endpoint, data access policy, then the collection itself.
// The collection is returned in its initial converging status; waiting for
// ACTIVE is the status loop's job.
func (r *Runtime) createCollection(ctx context.Context, in workflow.Input) (*workflow.CollectionOutput, error) {
	name := workflow.CollectionName(in.ChatbotID)

	if err := r.search.CreateEncryptionPolicy(ctx, name); err != nil {
		return nil, err
	}

	endpointID, err := r.search.EnsureVpcEndpoint(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := r.search.CreateDataAccessPolicy(ctx, name); err != nil {
		return nil, err
	}

	arn, err := r.search.CreateCollection(ctx, name)
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "collection provisioning started",
		"chatbot_id", in.ChatbotID, "collection", name)

	return &workflow.CollectionOutput{
		Name:          name,
		ARN:           arn,
		Status:        workflow.CollectionCreating,
		VPCEndpointID: endpointID,
	}, nil
}

// checkCollectionStatus performs one status lookup against the collection.
func (r *Runtime) checkCollectionStatus(ctx context.Context, in workflow.Input, collection *workflow.CollectionOutput) (*workflow.StatusOutput, error) {
	current, err := r.search.GetCollection(ctx, collection.Name)
	if err != nil {
		return nil, err
	}

	arn := current.ARN
	if arn == "" {
		arn = collection.ARN
	}

	return &workflow.StatusOutput{
		Name:      collection.Name,
		ARN:       arn,
		Status:    current.Status,
		ChatbotID: in.ChatbotID,
	}, nil
}

// awaitCollection loops the status check until the collection leaves its
// converging status. Any settled status progresses the workflow, FAILED
// included; the knowledge base step verifies the live status before building
// on the collection. The overall context deadline bounds the loop. A status
// check error halts the loop rather than retrying.
func (r *Runtime) awaitCollection(ctx context.Context, in workflow.Input, collection *workflow.CollectionOutput) (*workflow.StatusOutput, error) {
	if err := sleep(ctx, r.options.InitialDelay); err != nil {
		return nil, err
	}

	for {
		status, err := r.checkCollectionStatus(ctx, in, collection)
		if err != nil {
			return nil, err
		}

		if !status.Pending() {
			r.logger.InfoContext(ctx, "collection settled",
				"collection", status.Name, "status", status.Status)
			return status, nil
		}

		r.logger.InfoContext(ctx, "collection still creating", "collection", status.Name)

		if err := sleep(ctx, r.options.PollInterval); err != nil {
			return nil, err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
