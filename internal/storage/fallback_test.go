package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyglottos/dataport/internal/entities"
)

// stubService records calls and fails every operation with err when set.
type stubService struct {
	err       error
	available bool
	user      *entities.User
	calls     []string
}

func (s *stubService) record(name string) error {
	s.calls = append(s.calls, name)
	return s.err
}

func (s *stubService) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	if err := s.record("GetUser"); err != nil {
		return nil, err
	}
	return s.user, nil
}

func (s *stubService) SetUser(ctx context.Context, user *entities.User) error {
	return s.record("SetUser")
}

func (s *stubService) DeleteUserData(ctx context.Context, userID string) error {
	return s.record("DeleteUserData")
}

func (s *stubService) GetProgress(ctx context.Context, userID string) (*entities.Progress, error) {
	return nil, s.record("GetProgress")
}

func (s *stubService) SetProgress(ctx context.Context, progress *entities.Progress) error {
	return s.record("SetProgress")
}

func (s *stubService) UpdateProgress(ctx context.Context, userID string, patch entities.ProgressPatch) error {
	return s.record("UpdateProgress")
}

func (s *stubService) GetSettings(ctx context.Context, userID string) (*entities.Settings, error) {
	return nil, s.record("GetSettings")
}

func (s *stubService) SetSettings(ctx context.Context, settings *entities.Settings) error {
	return s.record("SetSettings")
}

func (s *stubService) UpdateSettings(ctx context.Context, userID string, updates *entities.Settings) error {
	return s.record("UpdateSettings")
}

func (s *stubService) GetSession(ctx context.Context) (entities.Session, error) {
	return nil, s.record("GetSession")
}

func (s *stubService) SetSession(ctx context.Context, session entities.Session) error {
	return s.record("SetSession")
}

func (s *stubService) ClearSession(ctx context.Context) error {
	return s.record("ClearSession")
}

func (s *stubService) IsAvailable(ctx context.Context) bool {
	s.calls = append(s.calls, "IsAvailable")
	return s.available
}

func (s *stubService) Clear(ctx context.Context) error {
	return s.record("Clear")
}

var _ Service = (*stubService)(nil)

func TestFallbackPrimarySucceeds(t *testing.T) {
	primary := &stubService{user: &entities.User{ID: "user-1"}}
	secondary := &stubService{}
	svc := NewFallbackService(primary, secondary)

	user, err := svc.GetUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, []string{"GetUser"}, primary.calls)
	assert.Empty(t, secondary.calls)
}

func TestFallbackRetriesOnSecondary(t *testing.T) {
	primary := &stubService{err: NewError(CodeNetworkError, "network request failed", true, nil)}
	secondary := &stubService{user: &entities.User{ID: "user-1", Username: "alice"}}
	svc := NewFallbackService(primary, secondary)

	user, err := svc.GetUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, []string{"GetUser"}, primary.calls)
	assert.Equal(t, []string{"GetUser"}, secondary.calls)
}

func TestFallbackSecondaryErrorPropagates(t *testing.T) {
	primary := &stubService{err: NewError(CodeNetworkError, "network request failed", true, nil)}
	secondary := &stubService{err: NewError(CodeSetError, "failed to save", true, nil)}
	svc := NewFallbackService(primary, secondary)

	err := svc.SetUser(context.Background(), &entities.User{ID: "user-1"})
	require.Error(t, err)
	storageErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeSetError, storageErr.Code)
}

func TestFallbackWithoutSecondary(t *testing.T) {
	primary := &stubService{err: NewError(CodeGetError, "failed to read", true, nil)}
	svc := NewFallbackService(primary, nil)

	_, err := svc.GetProgress(context.Background(), "user-1")
	require.Error(t, err)
	storageErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeGetError, storageErr.Code)
}

func TestFallbackIsAvailableProbesPrimaryOnly(t *testing.T) {
	primary := &stubService{available: false}
	secondary := &stubService{available: true}
	svc := NewFallbackService(primary, secondary)

	assert.False(t, svc.IsAvailable(context.Background()))
	assert.Empty(t, secondary.calls)
}
