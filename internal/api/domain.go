package api

import (
	"github.com/JaimeStill/foundry/internal/chatbots"
	"github.com/JaimeStill/foundry/internal/executions"
	"github.com/JaimeStill/foundry/internal/orchestrator"
	"github.com/JaimeStill/foundry/internal/relay"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Chatbots   chatbots.System
	Executions executions.System
	Relay      *relay.Handler
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	chatbotsSystem := chatbots.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	workflowRuntime := orchestrator.NewRuntime(
		runtime.Agents,
		runtime.Search,
		chatbotsSystem,
		runtime.Workflow,
		runtime.Logger,
	)

	executionsSystem := executions.New(workflowRuntime, runtime.Logger)

	// In-flight provisioning runs finish before the process exits.
	runtime.Lifecycle.OnShutdown(func() {
		<-runtime.Lifecycle.Context().Done()
		executionsSystem.Drain()
	})

	relayHandler := relay.New(runtime.Agents, chatbotsSystem, runtime.Logger)

	return &Domain{
		Chatbots:   chatbotsSystem,
		Executions: executionsSystem,
		Relay:      relayHandler,
	}
}
