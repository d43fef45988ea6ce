package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nexuscore/vaultd/internal/catalog"
	"github.com/nexuscore/vaultd/internal/db"
	"github.com/nexuscore/vaultd/internal/kv"
	mcpserver "github.com/nexuscore/vaultd/internal/mcp"
	"github.com/nexuscore/vaultd/internal/vectorindex"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing vault catalog search tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := db.Open(filepath.Join(cfg.DataDir, "vaultd.db"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		kvs := kv.NewStore(database)
		registry := catalog.NewSessionRegistry()
		store := catalog.NewStore(kvs, registry, nil)
		store.Load(cmd.Context())

		// Semantic search is optional; vault_search degrades to substring
		// matching without it.
		var index *vectorindex.Index
		if embedder, err := createEmbedderFromConfig(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: semantic search disabled: %v\n", err)
		} else {
			index, err = vectorindex.New(embedder)
			if err != nil {
				return fmt.Errorf("creating vector index: %w", err)
			}
			if err := index.AddItems(cmd.Context(), store.All()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: indexing catalog: %v\n", err)
			}
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "vaultd MCP server started on stdio (items=%d)\n", len(store.All()))

		srv := mcpserver.NewServer(store, index)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
