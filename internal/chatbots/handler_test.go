package chatbots_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/foundry/internal/chatbots"
)

type fakeSystem struct {
	chatbot *chatbots.Chatbot
	detail  *chatbots.AgentDetail
	created *chatbots.CreateCommand
	err     error
}

func (f *fakeSystem) Handler() *chatbots.Handler {
	return chatbots.NewHandler(f, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (f *fakeSystem) Find(ctx context.Context, projectID, chatbotID string) (*chatbots.Chatbot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chatbot, nil
}

func (f *fakeSystem) Create(ctx context.Context, cmd chatbots.CreateCommand) (*chatbots.Chatbot, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &cmd
	return &chatbots.Chatbot{
		ID:        cmd.ID,
		ProjectID: cmd.ProjectID,
		Name:      cmd.Name,
		Status:    chatbots.StatusPending,
	}, nil
}

func (f *fakeSystem) Activate(ctx context.Context, cmd chatbots.ActivateCommand) error {
	return f.err
}

func (f *fakeSystem) FindAgentDetail(ctx context.Context, chatbotID string) (*chatbots.AgentDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

func TestHandlerCreate(t *testing.T) {
	sys := &fakeSystem{}

	body := `{"id":"cb-1","projectId":"proj-1","name":"Support Bot"}`
	req := httptest.NewRequest(http.MethodPost, "/chatbots", strings.NewReader(body))
	rec := httptest.NewRecorder()

	sys.Handler().Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var chatbot chatbots.Chatbot
	if err := json.NewDecoder(rec.Body).Decode(&chatbot); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if chatbot.Status != chatbots.StatusPending {
		t.Errorf("expected PENDING, got %s", chatbot.Status)
	}
	if sys.created == nil || sys.created.ID != "cb-1" {
		t.Error("expected create command to reach the system")
	}
}

func TestHandlerCreateMalformed(t *testing.T) {
	sys := &fakeSystem{}

	req := httptest.NewRequest(http.MethodPost, "/chatbots", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	sys.Handler().Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandlerCreateDuplicate(t *testing.T) {
	sys := &fakeSystem{err: chatbots.ErrDuplicate}

	body := `{"id":"cb-1","projectId":"proj-1","name":"Support Bot"}`
	req := httptest.NewRequest(http.MethodPost, "/chatbots", strings.NewReader(body))
	rec := httptest.NewRecorder()

	sys.Handler().Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestHandlerFind(t *testing.T) {
	sys := &fakeSystem{
		chatbot: &chatbots.Chatbot{ID: "cb-1", ProjectID: "proj-1", Status: chatbots.StatusActive},
	}

	req := httptest.NewRequest(http.MethodGet, "/chatbots/proj-1/cb-1", nil)
	req.SetPathValue("projectId", "proj-1")
	req.SetPathValue("id", "cb-1")
	rec := httptest.NewRecorder()

	sys.Handler().Find(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var chatbot chatbots.Chatbot
	if err := json.NewDecoder(rec.Body).Decode(&chatbot); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if chatbot.ID != "cb-1" {
		t.Errorf("expected cb-1, got %s", chatbot.ID)
	}
}

func TestHandlerFindNotFound(t *testing.T) {
	sys := &fakeSystem{err: chatbots.ErrNotFound}

	req := httptest.NewRequest(http.MethodGet, "/chatbots/proj-1/missing", nil)
	req.SetPathValue("projectId", "proj-1")
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	sys.Handler().Find(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandlerFindAgentDetail(t *testing.T) {
	sys := &fakeSystem{
		detail: &chatbots.AgentDetail{
			ChatbotID:    "cb-1",
			AgentID:      "agent-1",
			AgentAliasID: "alias-1",
			ActionGroups: json.RawMessage(`[{"actionGroupId":"ag-1","name":"ActionGroup-cb-1"}]`),
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/chatbots/cb-1/agent", nil)
	req.SetPathValue("id", "cb-1")
	rec := httptest.NewRecorder()

	sys.Handler().FindAgentDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var detail chatbots.AgentDetail
	if err := json.NewDecoder(rec.Body).Decode(&detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.AgentID != "agent-1" {
		t.Errorf("expected agent-1, got %s", detail.AgentID)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", chatbots.ErrNotFound, http.StatusNotFound},
		{"detail not found", chatbots.ErrDetailNotFound, http.StatusNotFound},
		{"duplicate", chatbots.ErrDuplicate, http.StatusConflict},
		{"not pending", chatbots.ErrNotPending, http.StatusConflict},
		{"invalid input", chatbots.ErrInvalidInput, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := chatbots.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
