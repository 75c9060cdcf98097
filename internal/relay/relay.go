// Package relay bridges WebSocket clients to provisioned agents: one
// connection is one conversation session, each inbound message invokes the
// chatbot's agent, and the streamed completion is relayed back frame by
// frame.
package relay

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/JaimeStill/foundry/internal/bedrock"
	"github.com/JaimeStill/foundry/internal/chatbots"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 8 * 1024
)

// Request is one inbound conversation turn.
type Request struct {
	ChatbotID string `json:"chatbotId"`
	InputText string `json:"inputText"`
}

// Frame is one outbound message: a completion chunk or an error.
type Frame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Frame types.
const (
	FrameResponse = "response"
	FrameError    = "error"
)

// Handler upgrades conversation connections and relays agent responses.
type Handler struct {
	agents   bedrock.Runtime
	chatbots chatbots.System
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// New creates a relay handler over the agent runtime and chatbot records.
func New(agents bedrock.Runtime, records chatbots.System, logger *slog.Logger) *Handler {
	return &Handler{
		agents:   agents,
		chatbots: records,
		logger:   logger.With("system", "relay"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and runs the session loop until the
// client disconnects. The connection id doubles as the agent session id,
// so conversation memory spans the life of the connection.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)

	session := uuid.New().String()
	logger := h.logger.With("session", session)
	logger.Info("session opened", "remote", r.RemoteAddr)

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Error("read failed", "error", err)
			}
			logger.Info("session closed")
			return
		}

		h.handle(r, conn, session, req, logger)
	}
}

// handle relays one conversation turn. Errors are reported in-band so the
// session survives a failed turn.
func (h *Handler) handle(r *http.Request, conn *websocket.Conn, session string, req Request, logger *slog.Logger) {
	if req.ChatbotID == "" || req.InputText == "" {
		h.writeFrame(conn, Frame{Type: FrameError, Content: "chatbotId and inputText are required"})
		return
	}

	detail, err := h.chatbots.FindAgentDetail(r.Context(), req.ChatbotID)
	if err != nil {
		if errors.Is(err, chatbots.ErrDetailNotFound) {
			h.writeFrame(conn, Frame{Type: FrameError, Content: "no agent provisioned for chatbot"})
			return
		}
		logger.Error("agent detail lookup failed", "chatbot_id", req.ChatbotID, "error", err)
		h.writeFrame(conn, Frame{Type: FrameError, Content: "agent lookup failed"})
		return
	}

	err = h.agents.Invoke(r.Context(), bedrock.InvokeInput{
		AgentID:    detail.AgentID,
		AgentAlias: detail.AgentAliasID,
		SessionID:  session,
		Text:       req.InputText,
	}, func(chunk []byte) error {
		return h.writeFrame(conn, Frame{Type: FrameResponse, Content: string(chunk)})
	})
	if err != nil {
		logger.Error("invoke failed", "chatbot_id", req.ChatbotID, "error", err)
		h.writeFrame(conn, Frame{Type: FrameError, Content: "agent invocation failed"})
	}
}

func (h *Handler) writeFrame(conn *websocket.Conn, frame Frame) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(frame)
}
