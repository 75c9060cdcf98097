package relay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/JaimeStill/foundry/internal/bedrock"
	"github.com/JaimeStill/foundry/internal/chatbots"
)

type fakeRuntime struct {
	chunks   []string
	err      error
	invoked  *bedrock.InvokeInput
	sessions []string
}

func (f *fakeRuntime) Invoke(ctx context.Context, in bedrock.InvokeInput, fn bedrock.ChunkFunc) error {
	f.invoked = &in
	f.sessions = append(f.sessions, in.SessionID)

	if f.err != nil {
		return f.err
	}

	for _, chunk := range f.chunks {
		if err := fn([]byte(chunk)); err != nil {
			return err
		}
	}
	return nil
}

type fakeRecords struct {
	detail *chatbots.AgentDetail
}

func (f *fakeRecords) Handler() *chatbots.Handler { return nil }

func (f *fakeRecords) Find(ctx context.Context, projectID, chatbotID string) (*chatbots.Chatbot, error) {
	return nil, chatbots.ErrNotFound
}

func (f *fakeRecords) Create(ctx context.Context, cmd chatbots.CreateCommand) (*chatbots.Chatbot, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRecords) Activate(ctx context.Context, cmd chatbots.ActivateCommand) error {
	return errors.New("not implemented")
}

func (f *fakeRecords) FindAgentDetail(ctx context.Context, chatbotID string) (*chatbots.AgentDetail, error) {
	if f.detail == nil || f.detail.ChatbotID != chatbotID {
		return nil, chatbots.ErrDetailNotFound
	}
	return f.detail, nil
}

func testDetail() *chatbots.AgentDetail {
	return &chatbots.AgentDetail{
		ChatbotID:    "cb-1",
		ProjectID:    "proj-1",
		AgentID:      "agent-1",
		AgentAliasID: "alias-1",
	}
}

func dial(t *testing.T, handler *Handler) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(time.Second))

	var frame Frame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return frame
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRelayStreamsResponse(t *testing.T) {
	runtime := &fakeRuntime{chunks: []string{"Hello", " there"}}
	handler := New(runtime, &fakeRecords{detail: testDetail()}, testLogger())

	conn := dial(t, handler)

	if err := conn.WriteJSON(Request{ChatbotID: "cb-1", InputText: "hi"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	first := readFrame(t, conn)
	if first.Type != FrameResponse || first.Content != "Hello" {
		t.Errorf("unexpected first frame: %+v", first)
	}

	second := readFrame(t, conn)
	if second.Type != FrameResponse || second.Content != " there" {
		t.Errorf("unexpected second frame: %+v", second)
	}

	if runtime.invoked == nil {
		t.Fatal("expected invocation")
	}
	if runtime.invoked.AgentID != "agent-1" || runtime.invoked.AgentAlias != "alias-1" {
		t.Errorf("unexpected invocation target: %+v", runtime.invoked)
	}
	if runtime.invoked.SessionID == "" {
		t.Error("expected session id")
	}
}

func TestRelaySessionSpansConnection(t *testing.T) {
	runtime := &fakeRuntime{chunks: []string{"ok"}}
	handler := New(runtime, &fakeRecords{detail: testDetail()}, testLogger())

	conn := dial(t, handler)

	for range 2 {
		if err := conn.WriteJSON(Request{ChatbotID: "cb-1", InputText: "hi"}); err != nil {
			t.Fatalf("write: %v", err)
		}
		readFrame(t, conn)
	}

	if len(runtime.sessions) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(runtime.sessions))
	}
	if runtime.sessions[0] != runtime.sessions[1] {
		t.Error("expected a stable session id across turns")
	}
}

func TestRelayUnprovisionedChatbot(t *testing.T) {
	handler := New(&fakeRuntime{}, &fakeRecords{}, testLogger())

	conn := dial(t, handler)

	if err := conn.WriteJSON(Request{ChatbotID: "cb-9", InputText: "hi"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	frame := readFrame(t, conn)
	if frame.Type != FrameError {
		t.Errorf("expected error frame, got %+v", frame)
	}
}

func TestRelayInvalidRequest(t *testing.T) {
	handler := New(&fakeRuntime{}, &fakeRecords{detail: testDetail()}, testLogger())

	conn := dial(t, handler)

	if err := conn.WriteJSON(Request{ChatbotID: "cb-1"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	frame := readFrame(t, conn)
	if frame.Type != FrameError {
		t.Errorf("expected error frame, got %+v", frame)
	}
}

func TestRelayInvokeFailure(t *testing.T) {
	runtime := &fakeRuntime{err: errors.New("stream interrupted")}
	handler := New(runtime, &fakeRecords{detail: testDetail()}, testLogger())

	conn := dial(t, handler)

	if err := conn.WriteJSON(Request{ChatbotID: "cb-1", InputText: "hi"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	frame := readFrame(t, conn)
	if frame.Type != FrameError {
		t.Errorf("expected error frame, got %+v", frame)
	}
}
