package api

import (
	"net/http"

	"github.com/JaimeStill/foundry/internal/trigger"
	"github.com/JaimeStill/foundry/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	triggerHandler := trigger.NewHandler(domain.Executions, runtime.Logger)

	routes.Register(
		mux,
		domain.Chatbots.Handler().Routes(),
		domain.Executions.Handler().Routes(),
		triggerHandler.Routes(),
	)
}
