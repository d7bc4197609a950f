// Package storage defines the capability interface every persistence
// backend implements, the shared error taxonomy, and the factory that
// composes a primary backend with an optional fallback.
package storage

import (
	"context"
	"time"

	"github.com/polyglottos/dataport/internal/entities"
)

// Service is the contract all persistence backends satisfy. Get operations
// return (nil, nil) when no record exists so "not found" looks the same
// across backends. All failures are *storage.Error values.
//
// A Service instance is shared, read-mostly, across concurrent callers;
// implementations must be safe for concurrent use.
type Service interface {
	// User records, keyed by user id.
	GetUser(ctx context.Context, userID string) (*entities.User, error)
	SetUser(ctx context.Context, user *entities.User) error
	DeleteUserData(ctx context.Context, userID string) error

	// Progress records, looked up by user id (one per user).
	GetProgress(ctx context.Context, userID string) (*entities.Progress, error)
	SetProgress(ctx context.Context, progress *entities.Progress) error
	// UpdateProgress read-merges-writes, creating a default record when
	// none exists and stamping LastUpdated.
	UpdateProgress(ctx context.Context, userID string, patch entities.ProgressPatch) error

	// Settings records, keyed by user id.
	GetSettings(ctx context.Context, userID string) (*entities.Settings, error)
	SetSettings(ctx context.Context, settings *entities.Settings) error
	// UpdateSettings shallow-merges updates over the stored record,
	// creating one when none exists.
	UpdateSettings(ctx context.Context, userID string, updates *entities.Settings) error

	// Session state for the active login. GetSession returns an empty
	// session, not an error, when none is stored.
	GetSession(ctx context.Context) (entities.Session, error)
	SetSession(ctx context.Context, session entities.Session) error
	ClearSession(ctx context.Context) error

	// IsAvailable is a non-throwing liveness probe.
	IsAvailable(ctx context.Context) bool

	// Clear wipes all data. Backends that cannot support it fail with
	// UNSUPPORTED_OPERATION instead of silently doing nothing.
	Clear(ctx context.Context) error
}

// Type names a backend implementation.
type Type string

const (
	TypeLocal Type = "local"
	TypeCloud Type = "cloud"
)

// DefaultTimeout bounds every cloud request unless configured otherwise.
const DefaultTimeout = 5 * time.Second

// Config describes how to build a storage service.
type Config struct {
	Type         Type
	FallbackType Type

	// Cloud backend settings.
	APIBaseURL string
	APIToken   string
	Timeout    time.Duration

	// Local backend settings.
	DatabasePath string

	// SessionPath is where the cloud backend keeps session state, since
	// the remote API has no session endpoint.
	SessionPath string
}
