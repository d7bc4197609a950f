// Package local implements the storage service over an embedded SQLite
// database, one table per record type.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/polyglottos/dataport/internal/entities"
	"github.com/polyglottos/dataport/internal/storage"
)

// sessionRow stores the current session as a single keyed JSON payload.
type sessionRow struct {
	Key     string `gorm:"primaryKey;size:32"`
	Payload string `gorm:"type:text"`
}

func (sessionRow) TableName() string {
	return "sessions"
}

const currentSessionKey = "current"

// Backend is the embedded storage service.
type Backend struct {
	db *gorm.DB
}

// New opens (or creates) the database at path and migrates the schema.
// Open and migration failures are non-recoverable.
func New(path string) (*Backend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, storage.NewError(storage.CodeDBOpenError, "failed to open local database", false, err)
	}

	if err := db.AutoMigrate(
		&entities.User{},
		&entities.Progress{},
		&entities.Settings{},
		&sessionRow{},
	); err != nil {
		return nil, storage.NewError(storage.CodeDBOpenError, "failed to migrate local database", false, err)
	}

	return &Backend{db: db}, nil
}

// Close releases the underlying database handle.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (b *Backend) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	var user entities.User
	err := b.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storage.NewError(storage.CodeGetError, fmt.Sprintf("failed to get user %s", userID), true, err)
	}
	return &user, nil
}

func (b *Backend) SetUser(ctx context.Context, user *entities.User) error {
	if err := b.db.WithContext(ctx).Save(user).Error; err != nil {
		return storage.NewError(storage.CodeSetError, "failed to set user data", true, err)
	}
	return nil
}

// DeleteUserData removes the user together with their progress and
// settings records.
func (b *Backend) DeleteUserData(ctx context.Context, userID string) error {
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entities.User{}, "id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entities.Progress{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Settings{}, "user_id = ?", userID).Error
	})
	if err != nil {
		return storage.NewError(storage.CodeDeleteError, fmt.Sprintf("failed to delete user %s", userID), true, err)
	}
	return nil
}

func (b *Backend) GetProgress(ctx context.Context, userID string) (*entities.Progress, error) {
	var progress entities.Progress
	err := b.db.WithContext(ctx).First(&progress, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storage.NewError(storage.CodeGetError, fmt.Sprintf("failed to get progress for user %s", userID), true, err)
	}
	return &progress, nil
}

func (b *Backend) SetProgress(ctx context.Context, progress *entities.Progress) error {
	if err := b.db.WithContext(ctx).Save(progress).Error; err != nil {
		return storage.NewError(storage.CodeSetError, "failed to set progress data", true, err)
	}
	return nil
}

func (b *Backend) UpdateProgress(ctx context.Context, userID string, patch entities.ProgressPatch) error {
	existing, err := b.GetProgress(ctx, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		existing = entities.NewProgress(userID)
	}
	patch.Apply(existing)
	return b.SetProgress(ctx, existing)
}

func (b *Backend) GetSettings(ctx context.Context, userID string) (*entities.Settings, error) {
	var settings entities.Settings
	err := b.db.WithContext(ctx).First(&settings, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storage.NewError(storage.CodeGetError, fmt.Sprintf("failed to get settings for user %s", userID), true, err)
	}
	return &settings, nil
}

func (b *Backend) SetSettings(ctx context.Context, settings *entities.Settings) error {
	if err := b.db.WithContext(ctx).Save(settings).Error; err != nil {
		return storage.NewError(storage.CodeSetError, "failed to set settings data", true, err)
	}
	return nil
}

func (b *Backend) UpdateSettings(ctx context.Context, userID string, updates *entities.Settings) error {
	existing, err := b.GetSettings(ctx, userID)
	if err != nil {
		return err
	}
	var merged entities.Settings
	if existing != nil {
		merged = existing.Merge(*updates)
	} else {
		merged = *updates
	}
	merged.UserID = userID
	return b.SetSettings(ctx, &merged)
}

func (b *Backend) GetSession(ctx context.Context) (entities.Session, error) {
	var row sessionRow
	err := b.db.WithContext(ctx).First(&row, "key = ?", currentSessionKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Session{}, nil
	}
	if err != nil {
		return nil, storage.NewError(storage.CodeGetError, "failed to get session", true, err)
	}
	var session entities.Session
	if err := json.Unmarshal([]byte(row.Payload), &session); err != nil {
		return nil, storage.NewError(storage.CodeGetError, "failed to decode session", true, err)
	}
	return session, nil
}

func (b *Backend) SetSession(ctx context.Context, session entities.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return storage.NewError(storage.CodeSetError, "failed to encode session", true, err)
	}
	row := sessionRow{Key: currentSessionKey, Payload: string(payload)}
	if err := b.db.WithContext(ctx).Save(&row).Error; err != nil {
		return storage.NewError(storage.CodeSetError, "failed to set session", true, err)
	}
	return nil
}

func (b *Backend) ClearSession(ctx context.Context) error {
	if err := b.db.WithContext(ctx).Delete(&sessionRow{}, "key = ?", currentSessionKey).Error; err != nil {
		return storage.NewError(storage.CodeDeleteError, "failed to clear session", true, err)
	}
	return nil
}

// IsAvailable pings the underlying database instead of failing.
func (b *Backend) IsAvailable(ctx context.Context) bool {
	if b == nil || b.db == nil {
		return false
	}
	sqlDB, err := b.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}

// Clear wipes every table in one transaction.
func (b *Backend) Clear(ctx context.Context) error {
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&entities.User{}, &entities.Progress{}, &entities.Settings{}, &sessionRow{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storage.NewError(storage.CodeClearError, "failed to clear local storage", true, err)
	}
	return nil
}

var _ storage.Service = (*Backend)(nil)
