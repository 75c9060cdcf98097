// Package api assembles the API module with all domain systems and route
// registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/foundry/internal/config"
	"github.com/JaimeStill/foundry/internal/infrastructure"
	"github.com/JaimeStill/foundry/pkg/middleware"
	"github.com/JaimeStill/foundry/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// The returned domain exposes the systems mounted outside the module prefix,
// such as the realtime relay.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, *Domain, error) {
	runtime, err := NewRuntime(cfg, infra)
	if err != nil {
		return nil, nil, err
	}
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, domain, nil
}
