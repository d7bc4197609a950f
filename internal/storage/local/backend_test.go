package local

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyglottos/dataport/internal/entities"
	"github.com/polyglottos/dataport/internal/storage"
)

// setupTestBackend creates a fresh backend against a throwaway database
func setupTestBackend(t *testing.T) *Backend {
	t.Helper()
	backend, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return backend
}

func TestUserCRUD(t *testing.T) {
	backend := setupTestBackend(t)
	ctx := context.Background()

	t.Run("GetUser returns nil for unknown id", func(t *testing.T) {
		user, err := backend.GetUser(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("SetUser then GetUser round-trips", func(t *testing.T) {
		user := &entities.User{ID: "user-1", Username: "alice", Email: "alice@example.com"}
		require.NoError(t, backend.SetUser(ctx, user))

		got, err := backend.GetUser(ctx, "user-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, "alice@example.com", got.Email)
	})

	t.Run("SetUser overwrites an existing record", func(t *testing.T) {
		user := &entities.User{ID: "user-1", Username: "alice2", Email: "alice@example.com"}
		require.NoError(t, backend.SetUser(ctx, user))

		got, err := backend.GetUser(ctx, "user-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "alice2", got.Username)
	})

	t.Run("DeleteUserData removes everything for the user", func(t *testing.T) {
		progress := entities.NewProgress("user-1")
		progress.QuestionsAnswered = 5
		require.NoError(t, backend.SetProgress(ctx, progress))
		lang := "fr"
		require.NoError(t, backend.SetSettings(ctx, &entities.Settings{UserID: "user-1", Language: &lang}))

		require.NoError(t, backend.DeleteUserData(ctx, "user-1"))

		user, err := backend.GetUser(ctx, "user-1")
		require.NoError(t, err)
		assert.Nil(t, user)
		gotProgress, err := backend.GetProgress(ctx, "user-1")
		require.NoError(t, err)
		assert.Nil(t, gotProgress)
		gotSettings, err := backend.GetSettings(ctx, "user-1")
		require.NoError(t, err)
		assert.Nil(t, gotSettings)
	})
}

func TestProgress(t *testing.T) {
	backend := setupTestBackend(t)
	ctx := context.Background()

	t.Run("GetProgress looks up by user id", func(t *testing.T) {
		progress := entities.NewProgress("user-2")
		progress.QuestionsAnswered = 10
		progress.CorrectAnswers = 7
		require.NoError(t, backend.SetProgress(ctx, progress))

		got, err := backend.GetProgress(ctx, "user-2")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 10, got.QuestionsAnswered)
		assert.Equal(t, progress.ID, got.ID)
	})

	t.Run("UpdateProgress creates the record when absent", func(t *testing.T) {
		answered := 3
		err := backend.UpdateProgress(ctx, "user-3", entities.ProgressPatch{QuestionsAnswered: &answered})
		require.NoError(t, err)

		got, err := backend.GetProgress(ctx, "user-3")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 3, got.QuestionsAnswered)
		assert.NotEmpty(t, got.ID)
		assert.NotEmpty(t, got.LastUpdated)
	})

	t.Run("UpdateProgress patches only given fields", func(t *testing.T) {
		correct := 2
		err := backend.UpdateProgress(ctx, "user-3", entities.ProgressPatch{CorrectAnswers: &correct})
		require.NoError(t, err)

		got, err := backend.GetProgress(ctx, "user-3")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 3, got.QuestionsAnswered)
		assert.Equal(t, 2, got.CorrectAnswers)
	})
}

func TestSettings(t *testing.T) {
	backend := setupTestBackend(t)
	ctx := context.Background()

	t.Run("UpdateSettings merges into existing record", func(t *testing.T) {
		lang := "de"
		theme := "dark"
		require.NoError(t, backend.SetSettings(ctx, &entities.Settings{UserID: "user-4", Language: &lang}))

		err := backend.UpdateSettings(ctx, "user-4", &entities.Settings{Theme: &theme})
		require.NoError(t, err)

		got, err := backend.GetSettings(ctx, "user-4")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.NotNil(t, got.Language)
		assert.Equal(t, "de", *got.Language)
		require.NotNil(t, got.Theme)
		assert.Equal(t, "dark", *got.Theme)
	})

	t.Run("Extra fields survive a round-trip", func(t *testing.T) {
		err := backend.UpdateSettings(ctx, "user-4", &entities.Settings{
			Extra: map[string]any{"fontSize": "large"},
		})
		require.NoError(t, err)

		got, err := backend.GetSettings(ctx, "user-4")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "large", got.Extra["fontSize"])
	})
}

func TestSession(t *testing.T) {
	backend := setupTestBackend(t)
	ctx := context.Background()

	t.Run("GetSession is empty before any set", func(t *testing.T) {
		session, err := backend.GetSession(ctx)
		require.NoError(t, err)
		assert.Empty(t, session)
	})

	t.Run("SetSession then GetSession round-trips", func(t *testing.T) {
		require.NoError(t, backend.SetSession(ctx, entities.Session{"userId": "user-5", "token": "abc"}))

		session, err := backend.GetSession(ctx)
		require.NoError(t, err)
		assert.Equal(t, "user-5", session.UserID())
		assert.Equal(t, "abc", session["token"])
	})

	t.Run("ClearSession removes the stored session", func(t *testing.T) {
		require.NoError(t, backend.ClearSession(ctx))

		session, err := backend.GetSession(ctx)
		require.NoError(t, err)
		assert.Empty(t, session)
	})
}

func TestClear(t *testing.T) {
	backend := setupTestBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.SetUser(ctx, &entities.User{ID: "user-6", Username: "bob", Email: "bob@example.com"}))
	require.NoError(t, backend.SetProgress(ctx, entities.NewProgress("user-6")))
	require.NoError(t, backend.SetSession(ctx, entities.Session{"userId": "user-6"}))

	require.NoError(t, backend.Clear(ctx))

	user, err := backend.GetUser(ctx, "user-6")
	require.NoError(t, err)
	assert.Nil(t, user)
	progress, err := backend.GetProgress(ctx, "user-6")
	require.NoError(t, err)
	assert.Nil(t, progress)
	session, err := backend.GetSession(ctx)
	require.NoError(t, err)
	assert.Empty(t, session)
}

func TestIsAvailable(t *testing.T) {
	backend := setupTestBackend(t)
	assert.True(t, backend.IsAvailable(context.Background()))
}

func TestOpenFailure(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "no", "such", "dir", "test.db"))
	require.Error(t, err)
	storageErr, ok := storage.AsError(err)
	require.True(t, ok)
	assert.Equal(t, storage.CodeDBOpenError, storageErr.Code)
	assert.False(t, storageErr.Recoverable)
}
