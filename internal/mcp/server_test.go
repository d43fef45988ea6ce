package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nexuscore/vaultd/internal/catalog"
	"github.com/nexuscore/vaultd/internal/db"
	"github.com/nexuscore/vaultd/internal/kv"
)

func setupMCP(t *testing.T) *Server {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	registry := catalog.NewSessionRegistry()
	store := catalog.NewStore(kv.NewStore(database), registry, nil)

	items := []catalog.Item{
		{ID: "pub-1", Name: "Nexus CLI", Description: "ferramenta de linha de comando", Category: "Desenvolvimento"},
		{ID: "sec-1", Name: "Secret Tool", Description: "acesso restrito", Category: "Utilitários", AccessPassword: "chave"},
	}
	for _, item := range items {
		if err := store.Add(context.Background(), item, nil); err != nil {
			t.Fatalf("seeding store: %v", err)
		}
	}

	// No index: vault_search exercises the substring fallback.
	return NewServer(store, nil)
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestSearchSubstringFallback(t *testing.T) {
	srv := setupMCP(t)
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"query": "ferramenta"}

	result, err := srv.handleSearchVault(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Nexus CLI") {
		t.Errorf("result missing the matching item: %q", text)
	}
	if strings.Contains(text, "chave") {
		t.Error("access password leaked into the search result")
	}
}

func TestSearchCategoryFilter(t *testing.T) {
	srv := setupMCP(t)
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"query": "", "category": "Utilitários"}

	result, err := srv.handleSearchVault(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "Secret Tool") || strings.Contains(text, "Nexus CLI") {
		t.Errorf("category filter result: %q", text)
	}
}

func TestSearchMissingQuery(t *testing.T) {
	srv := setupMCP(t)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{}

	result, err := srv.handleSearchVault(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error for missing query")
	}
}

func TestSearchNoMatches(t *testing.T) {
	srv := setupMCP(t)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"query": "zzz"}

	result, err := srv.handleSearchVault(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Error("empty results should not be an error")
	}
	if text := resultText(t, result); !strings.Contains(text, "No results") {
		t.Errorf("result = %q, want a no-results message", text)
	}
}

func TestGetItem(t *testing.T) {
	srv := setupMCP(t)
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"id": "sec-1"}

	result, err := srv.handleGetItem(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "Secret Tool") {
		t.Errorf("result missing the item: %q", text)
	}
	if !strings.Contains(text, "Restricted: true") {
		t.Errorf("result missing the restricted flag: %q", text)
	}
	if strings.Contains(text, "chave") {
		t.Error("access password leaked into the item output")
	}
}

func TestGetItemUnknown(t *testing.T) {
	srv := setupMCP(t)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"id": "missing"}

	result, err := srv.handleGetItem(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error for an unknown id")
	}
}

func TestListCategories(t *testing.T) {
	srv := setupMCP(t)

	result, err := srv.handleListCategories(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "Todos: 2 item(s)") {
		t.Errorf("total count missing: %q", text)
	}
	if !strings.Contains(text, "Desenvolvimento: 1 item(s)") {
		t.Errorf("per-category count missing: %q", text)
	}
}
