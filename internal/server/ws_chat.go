package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/nexuscore/vaultd/internal/chat"
	"github.com/nexuscore/vaultd/internal/llm"
)

// chatRequest is the incoming chat-socket message format.
type chatRequest struct {
	Type      string `json:"type"`       // "message"
	SessionID string `json:"session_id"` // empty for new sessions
	Protocol  string `json:"protocol"`   // defense | operation | optimization
	Content   string `json:"content"`
}

// chatResponse is the outgoing chat-socket message format.
type chatResponse struct {
	Type      string `json:"type"` // "response" or "error"
	SessionID string `json:"session_id"`
	Protocol  string `json:"protocol,omitempty"`
	Content   string `json:"content"`
	HTML      string `json:"html,omitempty"`
}

func (s *Server) handleChatSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: chat upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		var req chatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: chat read: %v", err)
			}
			return
		}

		if req.Content == "" {
			sendChatError(conn, req.SessionID, "content is required")
			continue
		}

		switch req.Type {
		case "message":
			s.handleChatMessage(conn, r, req)
		default:
			sendChatError(conn, req.SessionID, "unknown message type: "+req.Type)
		}
	}
}

func (s *Server) handleChatMessage(conn *websocket.Conn, r *http.Request, req chatRequest) {
	ctx := r.Context()

	protocol := llm.Protocol(req.Protocol)
	if protocol == "" {
		protocol = llm.ProtocolOperation
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sess, err := s.chatStore.CreateSession(ctx, string(protocol))
		if err != nil {
			sendChatError(conn, "", "failed to create session: "+err.Error())
			return
		}
		sessionID = sess.ID
	}

	history, err := s.chatHistory(ctx, sessionID)
	if err != nil {
		log.Printf("server: loading chat history: %v", err)
	}

	if _, err := s.chatStore.AppendMessage(ctx, sessionID, "user", req.Content); err != nil {
		log.Printf("server: persisting chat message: %v", err)
	}

	// Answer always arrives: oracle failures produce the fixed fallback.
	answer := s.oracle.Chat(ctx, protocol, history, req.Content, s.contextNotes(ctx, req.Content))

	if _, err := s.chatStore.AppendMessage(ctx, sessionID, "assistant", answer); err != nil {
		log.Printf("server: persisting chat reply: %v", err)
	}

	resp := chatResponse{
		Type:      "response",
		SessionID: sessionID,
		Protocol:  string(protocol),
		Content:   answer,
		HTML:      chat.RenderMarkdown(answer),
	}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: chat write: %v", err)
	}
}

// chatHistory converts a session's stored turns to oracle messages.
func (s *Server) chatHistory(ctx context.Context, sessionID string) ([]llm.Message, error) {
	stored, err := s.chatStore.History(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	msgs := make([]llm.Message, 0, len(stored))
	for _, m := range stored {
		msgs = append(msgs, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
	}
	return msgs, nil
}

// contextNotes finds catalog entries relevant to the user's message so the
// assistant can talk about what is actually in the vault.
func (s *Server) contextNotes(ctx context.Context, query string) []string {
	if s.index == nil {
		return nil
	}
	hits, err := s.index.Search(ctx, query, 3)
	if err != nil {
		log.Printf("server: vault context search: %v", err)
		return nil
	}
	notes := make([]string, 0, len(hits))
	for _, h := range hits {
		notes = append(notes, fmt.Sprintf("%s (%s): %s", h.Name, h.Category, h.Description))
	}
	return notes
}

func sendChatError(conn *websocket.Conn, sessionID, message string) {
	resp := chatResponse{
		Type:      "error",
		SessionID: sessionID,
		Content:   message,
	}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: chat write error: %v", err)
	}
}
