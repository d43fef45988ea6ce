package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/nexuscore/vaultd/internal/catalog"
	"github.com/nexuscore/vaultd/internal/vectorindex"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes vault catalog tools.
type Server struct {
	catalog *catalog.Store
	index   *vectorindex.Index // nil when no embedding credential
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies. index may
// be nil; search then falls back to substring matching.
func NewServer(store *catalog.Store, index *vectorindex.Index) *Server {
	s := &Server{
		catalog: store,
		index:   index,
	}

	s.mcp = server.NewMCPServer(
		"vaultd",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchVaultTool, s.handleSearchVault)
	s.mcp.AddTool(getItemTool, s.handleGetItem)
	s.mcp.AddTool(listCategoriesTool, s.handleListCategories)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
