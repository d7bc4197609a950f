package importer

import (
	"fmt"
	"regexp"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateBatch checks structural and per-record rules before any write.
// Missing identity fields and an empty batch are non-recoverable; format
// and range problems flag the single record and let the rest proceed.
func ValidateBatch(batch *Batch) []Issue {
	issues := []Issue{}

	if batch.Empty() {
		issues = append(issues, Issue{
			Type:        IssueValidation,
			Message:     "no data to import",
			Recoverable: false,
		})
		return issues
	}

	for i, user := range batch.Users {
		if user.ID == "" {
			issues = append(issues, Issue{
				Type:        IssueValidation,
				Field:       fmt.Sprintf("users[%d].id", i),
				Message:     "user record is missing an id",
				Recoverable: false,
			})
		}
		if user.Username == "" {
			issues = append(issues, Issue{
				Type:        IssueValidation,
				Field:       fmt.Sprintf("users[%d].username", i),
				Message:     "user record is missing a username",
				Recoverable: false,
			})
		}
		if user.Email == "" {
			issues = append(issues, Issue{
				Type:        IssueValidation,
				Field:       fmt.Sprintf("users[%d].email", i),
				Message:     "user record is missing an email",
				Recoverable: false,
			})
		}
		if user.Email != "" && !emailPattern.MatchString(user.Email) {
			issues = append(issues, Issue{
				Type:        IssueValidation,
				Field:       fmt.Sprintf("users[%d].email", i),
				Message:     fmt.Sprintf("invalid email format: %s", user.Email),
				Recoverable: true,
			})
		}
	}

	for i, progress := range batch.Progress {
		if progress.ID == "" {
			issues = append(issues, Issue{
				Type:        IssueValidation,
				Field:       fmt.Sprintf("progress[%d].id", i),
				Message:     "progress record is missing an id",
				Recoverable: false,
			})
		}
		if progress.UserID == "" {
			issues = append(issues, Issue{
				Type:        IssueValidation,
				Field:       fmt.Sprintf("progress[%d].userId", i),
				Message:     "progress record is missing a userId",
				Recoverable: false,
			})
		}
		counters := []struct {
			name  string
			value int
		}{
			{"questionsAnswered", progress.QuestionsAnswered},
			{"correctAnswers", progress.CorrectAnswers},
			{"quizzesTaken", progress.QuizzesTaken},
		}
		for _, c := range counters {
			if c.value < 0 {
				issues = append(issues, Issue{
					Type:        IssueValidation,
					Field:       fmt.Sprintf("progress[%d].%s", i, c.name),
					Message:     fmt.Sprintf("%s cannot be negative", c.name),
					Recoverable: true,
				})
			}
		}
		if progress.CorrectAnswers > progress.QuestionsAnswered {
			issues = append(issues, Issue{
				Type:        IssueValidation,
				Field:       fmt.Sprintf("progress[%d].correctAnswers", i),
				Message:     "correctAnswers cannot exceed questionsAnswered",
				Recoverable: true,
			})
		}
	}

	for i, settings := range batch.Settings {
		if settings.UserID == "" {
			issues = append(issues, Issue{
				Type:        IssueValidation,
				Field:       fmt.Sprintf("settings[%d].userId", i),
				Message:     "settings record is missing a userId",
				Recoverable: false,
			})
		}
	}

	return issues
}

// hasFatalIssue reports whether any issue must abort the whole import.
func hasFatalIssue(issues []Issue) bool {
	for _, issue := range issues {
		if !issue.Recoverable {
			return true
		}
	}
	return false
}
