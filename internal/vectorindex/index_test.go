package vectorindex

import (
	"context"
	"strings"
	"testing"

	"github.com/nexuscore/vaultd/internal/catalog"
)

// keywordEmbedder maps texts onto fixed axes by keyword so similarity is
// deterministic without a real model.
type keywordEmbedder struct{}

func (keywordEmbedder) Name() string { return "keyword" }

func (keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, 3)
		lower := strings.ToLower(text)
		if strings.Contains(lower, "terminal") {
			v[0] = 1
		}
		if strings.Contains(lower, "vídeo") {
			v[1] = 1
		}
		if strings.Contains(lower, "backup") {
			v[2] = 1
		}
		if v[0] == 0 && v[1] == 0 && v[2] == 0 {
			v[0], v[1], v[2] = 1, 1, 1
		}
		out[i] = v
	}
	return out, nil
}

func setupIndex(t *testing.T) *Index {
	t.Helper()

	x, err := New(keywordEmbedder{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return x
}

func TestSearchRanksBySimilarity(t *testing.T) {
	x := setupIndex(t)
	ctx := context.Background()

	items := []catalog.Item{
		{ID: "a", Name: "Nexus CLI", Description: "ferramenta de terminal", Category: "Desenvolvimento", AccessPassword: "secreta"},
		{ID: "b", Name: "Player", Description: "reprodutor de vídeo", Category: "Multimídia"},
	}
	if err := x.AddItems(ctx, items); err != nil {
		t.Fatalf("AddItems: %v", err)
	}
	if x.Count() != 2 {
		t.Fatalf("Count = %d, want 2", x.Count())
	}

	hits, err := x.Search(ctx, "app de terminal", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("Search returned %d hits, want 1", len(hits))
	}
	if hits[0].ItemID != "a" {
		t.Errorf("top hit = %q, want a", hits[0].ItemID)
	}
	if hits[0].Category != "Desenvolvimento" {
		t.Errorf("Category = %q", hits[0].Category)
	}
	// Only display fields are embedded; the password must not surface.
	if strings.Contains(hits[0].Description, "secreta") {
		t.Error("password leaked into the indexed content")
	}
}

func TestSearchLimitClampedToCollection(t *testing.T) {
	x := setupIndex(t)
	ctx := context.Background()

	if err := x.AddItem(ctx, catalog.Item{ID: "a", Name: "Backup", Description: "backup local"}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	hits, err := x.Search(ctx, "backup", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("Search returned %d hits, want the clamped 1", len(hits))
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	x := setupIndex(t)

	hits, err := x.Search(context.Background(), "qualquer coisa", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if hits != nil {
		t.Errorf("Search on an empty index = %v, want nil", hits)
	}
}
