package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/polyglottos/dataport/internal/config"
	"github.com/polyglottos/dataport/internal/importer"
	"github.com/polyglottos/dataport/internal/storage"
	"github.com/polyglottos/dataport/internal/storage/cloud"
	"github.com/polyglottos/dataport/internal/storage/local"
)

// MigrateCommand pushes the active user's local records to the cloud
// backend.
type MigrateCommand struct {
	DatabasePath string
	Strategy     string
}

// NewMigrateCommand creates a new MigrateCommand
func NewMigrateCommand() *MigrateCommand {
	return &MigrateCommand{}
}

// ParseFlags parses command line flags
func (cmd *MigrateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.StringVar(&cmd.Strategy, "strategy", "merge", "Merge strategy for conflicts: skip, overwrite or merge")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s migrate [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Migrate the active user's local records to the cloud backend.\n")
		fmt.Fprintf(os.Stderr, "The API endpoint is taken from API_BASE_URL and API_TOKEN.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the migrate command
func (cmd *MigrateCommand) Run() error {
	source, err := local.New(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer source.Close()

	cfg := config.NewConfig().StorageConfig()
	cfg.Type = storage.TypeCloud
	target := cloud.New(cfg)

	fmt.Printf("☁️  Migrating local data to %s\n", cfg.APIBaseURL)

	outcome := importer.NewService(source).MigrateTo(context.Background(), target, importer.Options{
		MergeStrategy: importer.MergeStrategy(cmd.Strategy),
	})

	printOutcome(outcome)
	if !outcome.Success {
		return fmt.Errorf("migration failed")
	}
	return nil
}
