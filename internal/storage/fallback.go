package storage

import (
	"context"
	"log"

	"github.com/polyglottos/dataport/internal/entities"
)

// FallbackService decorates a primary Service with an optional secondary.
// Every operation runs against the primary first; on failure it is retried
// once, in full, against the secondary. If the secondary also fails, the
// secondary's error propagates. The retry is a single attempt, not a
// backoff loop.
type FallbackService struct {
	primary   Service
	secondary Service
}

// NewFallbackService wraps primary with an optional secondary backend.
// secondary may be nil, in which case primary errors propagate untouched.
func NewFallbackService(primary, secondary Service) *FallbackService {
	return &FallbackService{primary: primary, secondary: secondary}
}

func runFallback(f *FallbackService, op func(Service) error) error {
	err := op(f.primary)
	if err == nil {
		return nil
	}
	if f.secondary == nil {
		return err
	}
	log.Printf("storage: primary operation failed, retrying on fallback: %v", err)
	if ferr := op(f.secondary); ferr != nil {
		log.Printf("storage: fallback operation also failed: %v", ferr)
		return ferr
	}
	return nil
}

func runFallbackValue[T any](f *FallbackService, op func(Service) (T, error)) (T, error) {
	var out T
	err := runFallback(f, func(s Service) error {
		var opErr error
		out, opErr = op(s)
		return opErr
	})
	return out, err
}

func (f *FallbackService) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	return runFallbackValue(f, func(s Service) (*entities.User, error) {
		return s.GetUser(ctx, userID)
	})
}

func (f *FallbackService) SetUser(ctx context.Context, user *entities.User) error {
	return runFallback(f, func(s Service) error {
		return s.SetUser(ctx, user)
	})
}

func (f *FallbackService) DeleteUserData(ctx context.Context, userID string) error {
	return runFallback(f, func(s Service) error {
		return s.DeleteUserData(ctx, userID)
	})
}

func (f *FallbackService) GetProgress(ctx context.Context, userID string) (*entities.Progress, error) {
	return runFallbackValue(f, func(s Service) (*entities.Progress, error) {
		return s.GetProgress(ctx, userID)
	})
}

func (f *FallbackService) SetProgress(ctx context.Context, progress *entities.Progress) error {
	return runFallback(f, func(s Service) error {
		return s.SetProgress(ctx, progress)
	})
}

func (f *FallbackService) UpdateProgress(ctx context.Context, userID string, patch entities.ProgressPatch) error {
	return runFallback(f, func(s Service) error {
		return s.UpdateProgress(ctx, userID, patch)
	})
}

func (f *FallbackService) GetSettings(ctx context.Context, userID string) (*entities.Settings, error) {
	return runFallbackValue(f, func(s Service) (*entities.Settings, error) {
		return s.GetSettings(ctx, userID)
	})
}

func (f *FallbackService) SetSettings(ctx context.Context, settings *entities.Settings) error {
	return runFallback(f, func(s Service) error {
		return s.SetSettings(ctx, settings)
	})
}

func (f *FallbackService) UpdateSettings(ctx context.Context, userID string, updates *entities.Settings) error {
	return runFallback(f, func(s Service) error {
		return s.UpdateSettings(ctx, userID, updates)
	})
}

func (f *FallbackService) GetSession(ctx context.Context) (entities.Session, error) {
	return runFallbackValue(f, func(s Service) (entities.Session, error) {
		return s.GetSession(ctx)
	})
}

func (f *FallbackService) SetSession(ctx context.Context, session entities.Session) error {
	return runFallback(f, func(s Service) error {
		return s.SetSession(ctx, session)
	})
}

func (f *FallbackService) ClearSession(ctx context.Context) error {
	return runFallback(f, func(s Service) error {
		return s.ClearSession(ctx)
	})
}

// IsAvailable reports the primary's availability. The probe itself never
// fails, so the secondary's availability is not consulted.
func (f *FallbackService) IsAvailable(ctx context.Context) bool {
	return f.primary.IsAvailable(ctx)
}

func (f *FallbackService) Clear(ctx context.Context) error {
	return runFallback(f, func(s Service) error {
		return s.Clear(ctx)
	})
}

var _ Service = (*FallbackService)(nil)
