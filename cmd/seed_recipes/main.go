package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/logging"
	"github.com/pageza/recipebox/backend/internal/service"
)

const name = "seed-recipes"

// overridden during build with ldflags
var version = "dev"

var (
	seedFile string
	dryRun   bool
)

var rootCmd = &cobra.Command{
	Use:   "seed_recipes",
	Short: "Load recipes from a YAML file into the configured database",
	Long: `Load recipes from a YAML file into the configured database.

The file holds a list of entries with a name and ingredience:

  - name: Ramen
    ingredience: Soba, broth, pork, eggs

Entries that fail validation are reported and skipped. A storage failure
stops the run. Database settings come from the same environment variables
and secrets the API server reads.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML file with the recipes to load")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate entries without writing them")
	_ = rootCmd.MarkFlagRequired("file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := logging.NewStructuredLogger(name, version, cfg.LogLevel)

	f, err := os.Open(seedFile)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	entries, err := loadSeedFile(f)
	if err != nil {
		return fmt.Errorf("%s: %w", seedFile, err)
	}

	db, err := database.Open(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if !dryRun {
		if err := database.EnsureSchema(db); err != nil {
			return fmt.Errorf("failed to prepare schema: %w", err)
		}
	}

	res, err := seedRecipes(cmd.Context(), service.NewRecipeService(db), entries, dryRun, cmd.OutOrStdout())
	fmt.Fprintf(cmd.OutOrStdout(), "%d created, %d skipped\n", res.Created, res.Skipped)
	return err
}
