package api

import (
	"github.com/JaimeStill/foundry/internal/config"
	"github.com/JaimeStill/foundry/internal/infrastructure"
	"github.com/JaimeStill/foundry/internal/orchestrator"
)

// Runtime extends Infrastructure with module-scoped orchestrator options.
type Runtime struct {
	*infrastructure.Infrastructure
	Workflow orchestrator.Options
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) (*Runtime, error) {
	options, err := cfg.Workflow.Options()
	if err != nil {
		return nil, err
	}

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Search:    infra.Search,
			Agents:    infra.Agents,
		},
		Workflow: options,
	}, nil
}
