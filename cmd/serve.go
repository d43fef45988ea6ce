package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nexuscore/vaultd/internal/catalog"
	"github.com/nexuscore/vaultd/internal/chat"
	"github.com/nexuscore/vaultd/internal/db"
	"github.com/nexuscore/vaultd/internal/kv"
	"github.com/nexuscore/vaultd/internal/llm"
	"github.com/nexuscore/vaultd/internal/server"
	"github.com/nexuscore/vaultd/internal/vectorindex"
)

var (
	servePort     int
	serveAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the vault HTTP server",
	Long:  `Starts the vault web server with the catalog API, upload flow, download session channel and the Nexus Core chat assistant.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg.Port = servePort
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Config %s: provider=%s model=%s data_dir=%s\n",
				cfgFile, cfg.Provider, cfg.Model, cfg.DataDir)
		}

		// Open database.
		dbPath := filepath.Join(cfg.DataDir, "vaultd.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		kvs := kv.NewStore(database)
		registry := catalog.NewSessionRegistry()
		store := catalog.NewStore(kvs, registry, nil)
		store.Load(cmd.Context())

		// Chat provider. A missing credential is not fatal: the assistant
		// and describe endpoints degrade to their local fallbacks.
		var oracle *llm.Oracle
		provider, err := createProviderFromConfig(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Nexus assistant offline: %v\n", err)
			oracle = llm.NewOracle(nil, cfg.Model)
		} else {
			oracle = llm.NewOracle(provider, cfg.Model)
		}

		// Semantic index, likewise optional.
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

		chatStore := chat.NewStore(database)

		srv := server.New(server.Config{
			Port:      cfg.Port,
			AllowAll:  serveAllowAll || cfg.AllowAllOrigins,
			VaultName: cfg.VaultName,
		}, store, registry, oracle, chatStore, index)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "vaultd v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Catalog items: %d\n", len(store.All()))
		if index != nil {
			fmt.Fprintf(os.Stderr, "  Indexed items: %d\n", index.Count())
		}

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured HTTP port")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}
