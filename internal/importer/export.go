package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/polyglottos/dataport/internal/storage"
)

const exportVersion = "1.0"

// ExportData gathers every record stored for the user into a batch
// suitable for re-import.
func ExportData(ctx context.Context, store storage.Service, userID string) (*Batch, error) {
	batch := &Batch{
		Metadata: &Metadata{
			Version:    exportVersion,
			ExportDate: time.Now().UTC().Format(time.RFC3339),
			Format:     "json",
		},
	}

	user, err := store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to export user %s: %w", userID, err)
	}
	if user != nil {
		batch.Users = append(batch.Users, *user)
	}

	progress, err := store.GetProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to export progress for %s: %w", userID, err)
	}
	if progress != nil {
		batch.Progress = append(batch.Progress, *progress)
	}

	settings, err := store.GetSettings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to export settings for %s: %w", userID, err)
	}
	if settings != nil {
		batch.Settings = append(batch.Settings, *settings)
	}

	return batch, nil
}

// ExportJSON renders the user's records as an indented JSON document.
func ExportJSON(ctx context.Context, store storage.Service, userID string) ([]byte, error) {
	batch, err := ExportData(ctx, store, userID)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(batch, "", "  ")
}
