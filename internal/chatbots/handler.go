package chatbots

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/foundry/pkg/handlers"
	"github.com/JaimeStill/foundry/pkg/routes"
)

// Handler provides HTTP endpoints for chatbot record operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "chatbots"),
	}
}

// Routes returns the route group definition for chatbot endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/chatbots",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "/{projectId}/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/agent", Handler: h.FindAgentDetail},
		},
	}
}

// Create registers a new chatbot record in PENDING status.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	chatbot, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, chatbot)
}

// Find returns a single chatbot record by its composite key.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	chatbot, err := h.sys.Find(r.Context(), r.PathValue("projectId"), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, chatbot)
}

// FindAgentDetail returns the agent binding for a chatbot.
func (h *Handler) FindAgentDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.sys.FindAgentDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, detail)
}
