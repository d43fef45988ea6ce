package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nexuscore/vaultd/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize vaultd configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure vaultd and generates a .vaultd.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
