// Package trigger adapts provisioning events to workflow executions. Events
// arrive in an event-bus envelope; only agent provisioning events start an
// execution, everything else is acknowledged and dropped.
package trigger

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/foundry/internal/executions"
	"github.com/JaimeStill/foundry/pkg/handlers"
	"github.com/JaimeStill/foundry/pkg/routes"
	"github.com/JaimeStill/foundry/workflow"
)

// DetailTypeAgent marks an event that should start a provisioning
// execution.
const DetailTypeAgent = "BEDROCK_AGENT"

// Event is the event-bus envelope delivered to the trigger endpoint.
type Event struct {
	Source     string `json:"source"`
	DetailType string `json:"detail-type"`
	Detail     Detail `json:"detail"`
}

// Detail is the provisioning payload inside the envelope.
type Detail struct {
	Type        string   `json:"type"`
	ChatbotID   string   `json:"chatbotId"`
	ProjectID   string   `json:"projectId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	Documents   []string `json:"documents"`
}

// Input converts the event detail to a workflow input.
func (d Detail) Input() workflow.Input {
	return workflow.Input{
		ChatbotID:   d.ChatbotID,
		ProjectID:   d.ProjectID,
		Name:        d.Name,
		Description: d.Description,
		Language:    d.Language,
		Documents:   d.Documents,
	}
}

// Handler provides the HTTP trigger endpoint.
type Handler struct {
	executions executions.System
	logger     *slog.Logger
}

// NewHandler creates a Handler over the execution registry.
func NewHandler(sys executions.System, logger *slog.Logger) *Handler {
	return &Handler{
		executions: sys,
		logger:     logger.With("handler", "trigger"),
	}
}

// Routes returns the route group definition for the trigger endpoint.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/events",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Receive},
		},
	}
}

// Receive accepts one event. Non-agent events are acknowledged without
// starting anything; agent events are validated and start a detached
// execution, returning its snapshot for polling.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	var event Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if event.Detail.Type != DetailTypeAgent {
		h.logger.Info("event ignored", "type", event.Detail.Type, "source", event.Source)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	in := event.Detail.Input()
	if err := in.Validate(); err != nil {
		handlers.RespondError(w, h.logger, workflow.MapHTTPStatus(err), err)
		return
	}

	execution := h.executions.Start(in)

	handlers.RespondJSON(w, http.StatusAccepted, execution)
}
