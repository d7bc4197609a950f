package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyglottos/dataport/internal/entities"
)

func TestValidateBatch(t *testing.T) {
	t.Run("empty batch is fatal", func(t *testing.T) {
		issues := ValidateBatch(&Batch{})
		require.Len(t, issues, 1)
		assert.False(t, issues[0].Recoverable)
		assert.True(t, hasFatalIssue(issues))
	})

	t.Run("valid batch has no issues", func(t *testing.T) {
		issues := ValidateBatch(&Batch{
			Users:    []entities.User{{ID: "user-1", Username: "alice", Email: "alice@example.com"}},
			Progress: []entities.Progress{{ID: "p-1", UserID: "user-1", QuestionsAnswered: 10, CorrectAnswers: 7}},
			Settings: []entities.Settings{{UserID: "user-1"}},
		})
		assert.Empty(t, issues)
	})

	t.Run("missing user id is fatal", func(t *testing.T) {
		issues := ValidateBatch(&Batch{Users: []entities.User{{Username: "alice", Email: "alice@example.com"}}})
		require.Len(t, issues, 1)
		assert.Equal(t, "users[0].id", issues[0].Field)
		assert.False(t, issues[0].Recoverable)
	})

	t.Run("missing username is fatal", func(t *testing.T) {
		issues := ValidateBatch(&Batch{Users: []entities.User{{ID: "user-1", Email: "alice@example.com"}}})
		require.Len(t, issues, 1)
		assert.Equal(t, "users[0].username", issues[0].Field)
		assert.False(t, issues[0].Recoverable)
	})

	t.Run("missing email is fatal", func(t *testing.T) {
		issues := ValidateBatch(&Batch{Users: []entities.User{{ID: "user-1", Username: "alice"}}})
		require.Len(t, issues, 1)
		assert.Equal(t, "users[0].email", issues[0].Field)
		assert.False(t, issues[0].Recoverable)
	})

	t.Run("bad email format is recoverable", func(t *testing.T) {
		issues := ValidateBatch(&Batch{Users: []entities.User{{ID: "user-1", Username: "alice", Email: "not-an-email"}}})
		require.Len(t, issues, 1)
		assert.Equal(t, "users[0].email", issues[0].Field)
		assert.True(t, issues[0].Recoverable)
		assert.False(t, hasFatalIssue(issues))
	})

	t.Run("missing progress id is fatal", func(t *testing.T) {
		issues := ValidateBatch(&Batch{Progress: []entities.Progress{{UserID: "user-1", QuestionsAnswered: 2}}})
		require.Len(t, issues, 1)
		assert.Equal(t, "progress[0].id", issues[0].Field)
		assert.False(t, issues[0].Recoverable)
	})

	t.Run("missing progress userId is fatal", func(t *testing.T) {
		issues := ValidateBatch(&Batch{Progress: []entities.Progress{{ID: "p-1"}}})
		require.Len(t, issues, 1)
		assert.Equal(t, "progress[0].userId", issues[0].Field)
		assert.False(t, issues[0].Recoverable)
	})

	t.Run("negative counters are recoverable", func(t *testing.T) {
		issues := ValidateBatch(&Batch{Progress: []entities.Progress{{ID: "p-1", UserID: "user-1", QuizzesTaken: -1}}})
		require.Len(t, issues, 1)
		assert.Equal(t, "progress[0].quizzesTaken", issues[0].Field)
		assert.Contains(t, issues[0].Message, "cannot be negative")
		assert.True(t, issues[0].Recoverable)
	})

	t.Run("correct answers beyond questions answered", func(t *testing.T) {
		issues := ValidateBatch(&Batch{Progress: []entities.Progress{{ID: "p-1", UserID: "user-1", QuestionsAnswered: 3, CorrectAnswers: 5}}})
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0].Message, "cannot exceed")
		assert.True(t, issues[0].Recoverable)
	})

	t.Run("missing settings userId is fatal", func(t *testing.T) {
		issues := ValidateBatch(&Batch{Settings: []entities.Settings{{}}})
		require.Len(t, issues, 1)
		assert.Equal(t, "settings[0].userId", issues[0].Field)
		assert.False(t, issues[0].Recoverable)
	})
}
