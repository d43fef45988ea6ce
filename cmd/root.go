package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "vaultd",
	Short: "Local technical file vault with an AI assistant",
	Long: `Vaultd serves a local catalog of downloadable technical artifacts with
password-gated entries, session-scoped upload binaries and the Nexus
Core chat assistant. It integrates with AI agents via MCP for catalog
search.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".vaultd.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
