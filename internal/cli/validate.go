package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/polyglottos/dataport/internal/importer"
)

// ValidateCommand checks an import file without touching any backend.
type ValidateCommand struct {
	FilePath   string
	Format     string
	RecordType string
}

// NewValidateCommand creates a new ValidateCommand
func NewValidateCommand() *ValidateCommand {
	return &ValidateCommand{}
}

// ParseFlags parses command line flags
func (cmd *ValidateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the JSON or CSV file to validate (required)")
	fs.StringVar(&cmd.Format, "format", "", "Input format: json or csv (detected from the extension if not specified)")
	fs.StringVar(&cmd.RecordType, "type", "", "Record type for CSV input: users, progress or settings")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s validate [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Validate an import file and report issues without writing anything.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
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

// Run executes the validate command
func (cmd *ValidateCommand) Run() error {
	content, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.FilePath, err)
	}

	var batch *importer.Batch
	var issues []importer.Issue
	if cmd.Format == "csv" {
		batch, issues = importer.ParseCSV(string(content), importer.RecordType(cmd.RecordType))
	} else {
		batch = &importer.Batch{}
		if err := json.Unmarshal(content, batch); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
	}
	if len(issues) == 0 {
		issues = importer.ValidateBatch(batch)
	}

	if len(issues) == 0 {
		fmt.Println("✅ No issues found")
		return nil
	}

	fatal := false
	for _, issue := range issues {
		prefix := "warning"
		if !issue.Recoverable {
			prefix = "error"
			fatal = true
		}
		if issue.Field != "" {
			fmt.Printf("%s: %s: %s\n", prefix, issue.Field, issue.Message)
		} else {
			fmt.Printf("%s: %s\n", prefix, issue.Message)
		}
	}
	if fatal {
		return fmt.Errorf("validation failed")
	}
	return nil
}
