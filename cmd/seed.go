package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/nexuscore/vaultd/internal/catalog"
	"github.com/nexuscore/vaultd/internal/db"
	"github.com/nexuscore/vaultd/internal/kv"
	"github.com/nexuscore/vaultd/internal/progress"
	"github.com/nexuscore/vaultd/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed <pattern>...",
	Short: "Import catalog items from YAML seed files",
	Long: `Reads one or more YAML seed files and imports their items into the
catalog database. Patterns support doublestar globs, e.g. "seeds/**/*.yml".
Items whose id already exists are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var paths []string
		for _, pattern := range args {
			matches, err := doublestar.FilepathGlob(pattern)
			if err != nil {
				return fmt.Errorf("bad pattern %q: %w", pattern, err)
			}
			paths = append(paths, matches...)
		}
		if len(paths) == 0 {
			return fmt.Errorf("no seed files matched")
		}

		var items []catalog.Item
		for _, path := range paths {
			parsed, err := seed.Read(path)
			if err != nil {
				return err
			}
			items = append(items, parsed...)
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

		reporter := progress.NewReporter()
		reporter.Start(len(items))

		imported, skipped := 0, 0
		for i, item := range items {
			reporter.Update(i+1, item.Name)
			if err := store.Add(cmd.Context(), item, nil); err != nil {
				if errors.Is(err, catalog.ErrDuplicateID) {
					skipped++
					continue
				}
				reporter.Finish()
				return fmt.Errorf("importing %s: %w", item.ID, err)
			}
			imported++
		}
		reporter.Finish()

		fmt.Fprintf(os.Stderr, "Imported %d item(s), skipped %d duplicate(s)\n", imported, skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
