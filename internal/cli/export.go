package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/polyglottos/dataport/internal/config"
	"github.com/polyglottos/dataport/internal/importer"
)

// ExportCommand writes every record stored for a user as JSON.
type ExportCommand struct {
	UserID       string
	OutputPath   string
	StorageType  string
	DatabasePath string
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand() *ExportCommand {
	return &ExportCommand{}
}

// ParseFlags parses command line flags
func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	fs.StringVar(&cmd.UserID, "user", "", "User ID to export (required)")
	fs.StringVar(&cmd.OutputPath, "output", "", "Output file (stdout if not specified)")
	fs.StringVar(&cmd.StorageType, "storage", "", "Storage backend: local or cloud (default from STORAGE_TYPE)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export a user's records as a JSON document accepted by 'import'.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.UserID == "" {
		fs.Usage()
		return fmt.Errorf("-user is required")
	}

	return nil
}

// Run executes the export command
func (cmd *ExportCommand) Run() error {
	store, err := newStorage(cmd.StorageType, cmd.DatabasePath)
	if err != nil {
		return err
	}

	data, err := importer.ExportJSON(context.Background(), store, cmd.UserID)
	if err != nil {
		return err
	}

	if cmd.OutputPath == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(cmd.OutputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd.OutputPath, err)
	}
	fmt.Printf("✅ Exported data for user %s to %s\n", cmd.UserID, cmd.OutputPath)
	return nil
}
