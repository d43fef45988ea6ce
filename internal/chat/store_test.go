package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/nexuscore/vaultd/internal/db"
)

func setupChat(t *testing.T) *Store {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestSessionLifecycle(t *testing.T) {
	s := setupChat(t)
	ctx := context.Background()

	sess, err := s.CreateSession(ctx, "defense")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("session id is empty")
	}
	if sess.Protocol != "defense" {
		t.Errorf("Protocol = %q, want defense", sess.Protocol)
	}

	got, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got == nil || got.ID != sess.ID {
		t.Errorf("GetSession returned %+v, want the created session", got)
	}

	missing, err := s.GetSession(ctx, "nope")
	if err != nil {
		t.Fatalf("GetSession missing: %v", err)
	}
	if missing != nil {
		t.Error("GetSession returned a session for an unknown id")
	}

	n, err := s.CountSessions(ctx)
	if err != nil || n != 1 {
		t.Errorf("CountSessions = %d (err %v), want 1", n, err)
	}
}

func TestHistoryOrder(t *testing.T) {
	s := setupChat(t)
	ctx := context.Background()

	sess, err := s.CreateSession(ctx, "operation")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	turns := []struct{ role, content string }{
		{"user", "primeira"},
		{"assistant", "resposta"},
		{"user", "segunda"},
	}
	for _, turn := range turns {
		if _, err := s.AppendMessage(ctx, sess.ID, turn.role, turn.content); err != nil {
			t.Fatalf("AppendMessage: %v", err)
		}
	}

	history, err := s.History(ctx, sess.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != len(turns) {
		t.Fatalf("History returned %d messages, want %d", len(history), len(turns))
	}
	for i, turn := range turns {
		if history[i].Role != turn.role || history[i].Content != turn.content {
			t.Errorf("History[%d] = %s/%q, want %s/%q",
				i, history[i].Role, history[i].Content, turn.role, turn.content)
		}
	}
}

func TestHistoryEmptySession(t *testing.T) {
	s := setupChat(t)

	history, err := s.History(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("History returned %d messages for an unknown session", len(history))
	}
}

func TestRenderMarkdown(t *testing.T) {
	html := RenderMarkdown("**negrito** e `código`")
	if !strings.Contains(html, "<strong>negrito</strong>") {
		t.Errorf("bold not rendered: %q", html)
	}
	if !strings.Contains(html, "<code>código</code>") {
		t.Errorf("inline code not rendered: %q", html)
	}
}

func TestRenderMarkdownList(t *testing.T) {
	html := RenderMarkdown("- um\n- dois")
	if !strings.Contains(html, "<li>") {
		t.Errorf("list not rendered: %q", html)
	}
}
