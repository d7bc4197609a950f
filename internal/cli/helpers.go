package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/polyglottos/dataport/internal/config"
	"github.com/polyglottos/dataport/internal/importer"
	"github.com/polyglottos/dataport/internal/storage"
	"github.com/polyglottos/dataport/internal/storage/factory"
)

// newStorage builds a storage service from the environment-driven config
// with the command-line overrides applied.
func newStorage(storageType, dbPath string) (storage.Service, error) {
	cfg := config.NewConfig().StorageConfig()
	if storageType != "" {
		cfg.Type = storage.Type(storageType)
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	cfg.FallbackType = ""
	return factory.NewService(cfg)
}

// detectFormat guesses the import format from the file extension.
func detectFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return "csv"
	}
	return "json"
}

// promptResolution asks the operator to resolve one conflict on stdin.
func promptResolution(conflict importer.Conflict) (importer.Resolution, error) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("Conflict on %s %q: [k]eep existing, [u]se incoming, [m]erge? ", conflict.Type, conflict.ID)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read resolution: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "k", "keep":
			return importer.ResolutionKeepExisting, nil
		case "u", "use":
			return importer.ResolutionUseIncoming, nil
		case "m", "merge":
			return importer.ResolutionMerge, nil
		}
		fmt.Println("Please answer k, u or m.")
	}
}

// printOutcome renders an import outcome for terminal consumption.
func printOutcome(outcome importer.Outcome) {
	if outcome.Success {
		fmt.Println("✅ Import succeeded")
	} else {
		fmt.Println("❌ Import failed")
	}
	fmt.Printf("   Imported: %d users, %d progress, %d settings\n",
		outcome.Imported.Users, outcome.Imported.Progress, outcome.Imported.Settings)
	fmt.Printf("   Skipped:  %d users, %d progress, %d settings\n",
		outcome.Skipped.Users, outcome.Skipped.Progress, outcome.Skipped.Settings)
	if len(outcome.Conflicts) > 0 {
		fmt.Printf("   Conflicts resolved: %d\n", len(outcome.Conflicts))
	}
	for _, issue := range outcome.Errors {
		prefix := "warning"
		if !issue.Recoverable {
			prefix = "error"
		}
		if issue.Field != "" {
			fmt.Printf("   %s: %s: %s\n", prefix, issue.Field, issue.Message)
		} else {
			fmt.Printf("   %s: %s\n", prefix, issue.Message)
		}
	}
}
