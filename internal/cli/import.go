package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/polyglottos/dataport/internal/config"
	"github.com/polyglottos/dataport/internal/importer"
)

// ImportCommand imports a JSON export document or a CSV file into a
// storage backend.
type ImportCommand struct {
	FilePath     string
	Format       string
	RecordType   string
	Strategy     string
	ValidateOnly bool
	StorageType  string
	DatabasePath string
}

// NewImportCommand creates a new ImportCommand
func NewImportCommand() *ImportCommand {
	return &ImportCommand{}
}

// ParseFlags parses command line flags
func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the JSON or CSV file to import (required)")
	fs.StringVar(&cmd.Format, "format", "", "Input format: json or csv (detected from the extension if not specified)")
	fs.StringVar(&cmd.RecordType, "type", "", "Record type for CSV input: users, progress or settings")
	fs.StringVar(&cmd.Strategy, "strategy", "ask", "Merge strategy for conflicts: skip, overwrite, merge or ask")
	fs.BoolVar(&cmd.ValidateOnly, "validate-only", false, "Validate the input without writing anything")
	fs.StringVar(&cmd.StorageType, "storage", "", "Storage backend: local or cloud (default from STORAGE_TYPE)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import user data from a JSON export document or a CSV file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Import a JSON export, merging conflicts:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file export.json -strategy merge\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Import users from a CSV file:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file users.csv -type users\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		fs.Usage()
		return fmt.Errorf("-file is required")
	}
	if cmd.Format == "" {
		cmd.Format = detectFormat(cmd.FilePath)
	}
	if cmd.Format == "csv" && cmd.RecordType == "" {
		return fmt.Errorf("-type is required for CSV input")
	}

	return nil
}

// Run executes the import command
func (cmd *ImportCommand) Run() error {
	content, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.FilePath, err)
	}

	store, err := newStorage(cmd.StorageType, cmd.DatabasePath)
	if err != nil {
		return err
	}

	opts := importer.Options{
		MergeStrategy: importer.MergeStrategy(cmd.Strategy),
		ValidateOnly:  cmd.ValidateOnly,
		OnConflict:    promptResolution,
		OnProgress: func(update importer.ProgressUpdate) {
			fmt.Printf("[%s] %s\n", update.Phase, update.Message)
		},
	}

	service := importer.NewService(store)
	ctx := context.Background()

	var outcome importer.Outcome
	if cmd.Format == "csv" {
		outcome = service.ImportCSV(ctx, string(content), importer.RecordType(cmd.RecordType), opts)
	} else {
		outcome = service.ImportJSON(ctx, content, opts)
	}

	printOutcome(outcome)
	if !outcome.Success {
		return fmt.Errorf("import failed")
	}
	return nil
}
