// Package executions tracks provisioning workflow executions: each trigger
// starts one detached execution, and the registry records its progress so
// callers can poll the outcome. The registry is in-memory; executions do
// not survive a process restart.
package executions

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/foundry/workflow"
)

// Execution statuses.
const (
	StatusRunning   = "RUNNING"
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"
	StatusTimedOut  = "TIMED_OUT"
)

// Execution is one tracked workflow run.
type Execution struct {
	ID         string           `json:"id"`
	ChatbotID  string           `json:"chatbotId"`
	ProjectID  string           `json:"projectId"`
	Status     string           `json:"status"`
	Stage      string           `json:"stage,omitempty"`
	Error      string           `json:"error,omitempty"`
	StartedAt  time.Time        `json:"startedAt"`
	FinishedAt *time.Time       `json:"finishedAt,omitempty"`
	Result     *workflow.Result `json:"result,omitempty"`
}

// Executor runs one provisioning workflow to completion.
type Executor interface {
	Execute(ctx context.Context, in workflow.Input) (*workflow.Context, *workflow.Result, error)
}

// System starts and tracks workflow executions.
type System interface {
	Handler() *Handler

	// Start registers a new execution and runs the workflow on a detached
	// context; the returned snapshot is immediately pollable by id.
	Start(in workflow.Input) *Execution
	// Find returns a snapshot of the execution.
	Find(id string) (*Execution, error)
	// Drain blocks until all in-flight executions reach a terminal state.
	Drain()
}

type system struct {
	executor Executor
	logger   *slog.Logger

	mu      sync.RWMutex
	wg      sync.WaitGroup
	records map[string]*Execution
}

// New creates an execution registry over the given executor.
func New(executor Executor, logger *slog.Logger) System {
	return &system{
		executor: executor,
		logger:   logger.With("system", "executions"),
		records:  make(map[string]*Execution),
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *system) Start(in workflow.Input) *Execution {
	execution := &Execution{
		ID:        uuid.New().String(),
		ChatbotID: in.ChatbotID,
		ProjectID: in.ProjectID,
		Status:    StatusRunning,
		StartedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.records[execution.ID] = execution
	s.mu.Unlock()

	s.logger.Info("execution started",
		"execution_id", execution.ID, "chatbot_id", in.ChatbotID)

	// Detached from the trigger request; the workflow manages its own
	// deadline.
	s.wg.Add(1)
	go s.run(execution.ID, in)

	return s.snapshot(execution.ID)
}

func (s *system) Drain() {
	s.wg.Wait()
}

func (s *system) run(id string, in workflow.Input) {
	defer s.wg.Done()

	_, result, err := s.executor.Execute(context.Background(), in)

	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	execution := s.records[id]
	execution.FinishedAt = &now

	if err != nil {
		execution.Status = StatusFailed
		if errors.Is(err, workflow.ErrTimedOut) {
			execution.Status = StatusTimedOut
		}
		execution.Error = err.Error()

		var step *workflow.StepError
		if errors.As(err, &step) {
			execution.Stage = step.Stage
		}

		s.logger.Error("execution failed",
			"execution_id", id, "status", execution.Status, "error", err)
		return
	}

	execution.Status = StatusSucceeded
	execution.Result = result

	s.logger.Info("execution succeeded",
		"execution_id", id, "agent_id", result.AgentID)
}

func (s *system) Find(id string) (*Execution, error) {
	execution := s.snapshot(id)
	if execution == nil {
		return nil, ErrNotFound
	}
	return execution, nil
}

// snapshot copies the record under the read lock so callers never observe
// a run goroutine's writes mid-flight.
func (s *system) snapshot(id string) *Execution {
	s.mu.RLock()
	defer s.mu.RUnlock()

	execution, ok := s.records[id]
	if !ok {
		return nil
	}

	copied := *execution
	return &copied
}
