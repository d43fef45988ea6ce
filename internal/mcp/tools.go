package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchVaultTool defines the vault_search MCP tool.
var searchVaultTool = mcp.NewTool("vault_search",
	mcp.WithDescription("Search the vault catalog. Uses semantic search when an embedding model is configured, substring matching otherwise."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5)"),
	),
	mcp.WithString("category",
		mcp.Description("Restrict results to one catalog category"),
	),
)

// getItemTool defines the vault_get_item MCP tool.
var getItemTool = mcp.NewTool("vault_get_item",
	mcp.WithDescription("Get the full public metadata of one catalog item by its id. Access passwords are never returned."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Catalog item id"),
	),
)

// listCategoriesTool defines the vault_list_categories MCP tool.
var listCategoriesTool = mcp.NewTool("vault_list_categories",
	mcp.WithDescription("List the catalog categories and how many items each one holds."),
)
