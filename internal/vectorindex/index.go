// Package vectorindex maintains a semantic index over catalog items so the
// chat assistant and MCP tools can find entries by meaning instead of
// substring.
package vectorindex

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"

	"github.com/nexuscore/vaultd/internal/catalog"
)

const collectionName = "vault"

// Hit is one semantic search result.
type Hit struct {
	ItemID      string
	Name        string
	Description string
	Category    string
	Similarity  float32
}

// Index is an in-memory chromem-go collection of catalog items. It is
// rebuilt from the catalog at startup and extended as uploads arrive.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   Embedder
}

// New creates an empty Index using the given embedder.
func New(embedder Embedder) (*Index, error) {
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, toChromemFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Index{db: db, collection: col, embedder: embedder}, nil
}

// AddItem embeds and stores one catalog item. Passwords never reach the
// index; only display fields are embedded.
func (x *Index) AddItem(ctx context.Context, item catalog.Item) error {
	doc := chromem.Document{
		ID:      item.ID,
		Content: item.Name + "\n" + item.Description,
		Metadata: map[string]string{
			"name":     item.Name,
			"category": item.Category,
		},
	}
	if err := x.collection.AddDocuments(ctx, []chromem.Document{doc}, 1); err != nil {
		return fmt.Errorf("indexing item %s: %w", item.ID, err)
	}
	return nil
}

// AddItems indexes a batch of items, stopping at the first failure.
func (x *Index) AddItems(ctx context.Context, items []catalog.Item) error {
	for _, item := range items {
		if err := x.AddItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// Search returns up to limit items semantically similar to query.
func (x *Index) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 5
	}

	// chromem-go requires nResults <= collection size.
	count := x.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := x.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	hits := make([]Hit, len(results))
	for i, r := range results {
		hits[i] = Hit{
			ItemID:      r.ID,
			Name:        r.Metadata["name"],
			Description: r.Content,
			Category:    r.Metadata["category"],
			Similarity:  r.Similarity,
		}
	}
	return hits, nil
}

// Count returns the number of indexed items.
func (x *Index) Count() int { return x.collection.Count() }
