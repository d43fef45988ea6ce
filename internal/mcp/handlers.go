package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nexuscore/vaultd/internal/catalog"
)

// handleSearchVault searches the catalog, semantically when an index is
// available, otherwise by substring.
func (s *Server) handleSearchVault(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}
	category := request.GetString("category", "")

	if s.index != nil {
		hits, err := s.index.Search(ctx, query, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}
		var sb strings.Builder
		count := 0
		for _, h := range hits {
			if category != "" && h.Category != category {
				continue
			}
			count++
			sb.WriteString(fmt.Sprintf("\n--- Result %d ---\nID: %s\nName: %s\nCategory: %s\nSimilarity: %.1f%%\n\n%s\n",
				count, h.ItemID, h.Name, h.Category, h.Similarity*100, h.Description))
		}
		if count == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Found %d result(s):\n%s", count, sb.String())), nil
	}

	filterCategory := category
	if filterCategory == "" {
		filterCategory = catalog.CategoryAll
	}
	items := catalog.Filter(s.catalog.All(), query, filterCategory, "")
	if len(items) > limit {
		items = items[:limit]
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("No results found."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n", len(items)))
	for i, item := range items {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n%s", i+1, formatItem(item)))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetItem returns the public metadata of one catalog item.
func (s *Server) handleGetItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	item, ok := s.catalog.FindByID(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no item with id %q", id)), nil
	}
	return mcp.NewToolResultText(formatItem(item)), nil
}

// handleListCategories returns the catalog categories with item counts.
func (s *Server) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items := s.catalog.All()
	counts := make(map[string]int, len(catalog.Categories))
	for _, item := range items {
		counts[item.Category]++
	}

	var sb strings.Builder
	for _, c := range catalog.Categories {
		if c == catalog.CategoryAll {
			sb.WriteString(fmt.Sprintf("%s: %d item(s)\n", c, len(items)))
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: %d item(s)\n", c, counts[c]))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatItem renders one item's public fields. The access password is
// deliberately absent.
func formatItem(item catalog.Item) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID: %s\nName: %s\nCategory: %s\n", item.ID, item.Name, item.Category))
	if item.SizeLabel != "" {
		sb.WriteString(fmt.Sprintf("Size: %s\n", item.SizeLabel))
	}
	if item.UpdatedAt != "" {
		sb.WriteString(fmt.Sprintf("Updated: %s\n", item.UpdatedAt))
	}
	sb.WriteString(fmt.Sprintf("Source: %s\nRestricted: %t\n", item.Source, item.Restricted()))
	if item.SecurityReport != nil {
		sb.WriteString(fmt.Sprintf("Integrity: %s (score %d, %s)\n",
			item.SecurityReport.Summary, item.SecurityReport.Score, item.SecurityReport.Status))
	}
	sb.WriteString("\n")
	sb.WriteString(item.Description)
	sb.WriteString("\n")
	return sb.String()
}
