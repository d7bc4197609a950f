package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/polyglottos/dataport/internal/entities"
	"github.com/polyglottos/dataport/internal/storage"
)

// Service runs imports and migrations against one storage backend.
type Service struct {
	storage storage.Service
}

func NewService(store storage.Service) *Service {
	return &Service{storage: store}
}

// ImportJSON parses a JSON export document and imports it.
func (s *Service) ImportJSON(ctx context.Context, data []byte, opts Options) Outcome {
	var batch Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return failedOutcome(Issue{
			Type:        IssueValidation,
			Message:     fmt.Sprintf("invalid JSON: %v", err),
			Recoverable: false,
		})
	}
	return s.ImportData(ctx, &batch, opts)
}

// ImportCSV parses CSV text holding records of a single type and imports
// it. Any parse issue aborts the call before a write happens; a
// well-formed file with no data rows succeeds with zero imports.
func (s *Service) ImportCSV(ctx context.Context, content string, recordType RecordType, opts Options) Outcome {
	batch, issues := ParseCSV(content, recordType)
	if len(issues) > 0 {
		return Outcome{Success: false, Errors: issues}
	}
	if batch.Empty() {
		return newOutcome()
	}
	return s.ImportData(ctx, batch, opts)
}

// ImportData validates the batch, then writes it out collection by
// collection: users first so progress and settings never reference a user
// the backend has not seen yet. Concurrent imports against the same
// backend are not coordinated; the read-merge-write per record assumes a
// single writer.
func (s *Service) ImportData(ctx context.Context, batch *Batch, opts Options) Outcome {
	outcome := newOutcome()
	strategy := opts.MergeStrategy
	if strategy == "" {
		strategy = StrategyAsk
	}

	reportProgress(opts, ProgressUpdate{Phase: PhaseValidating, Current: 0, Total: 1, Message: "Validating import data"})

	issues := ValidateBatch(batch)
	outcome.Errors = append(outcome.Errors, issues...)
	if hasFatalIssue(issues) {
		outcome.Success = false
		return outcome
	}
	if opts.ValidateOnly {
		reportProgress(opts, ProgressUpdate{Phase: PhaseComplete, Current: 1, Total: 1, Message: "Validation complete"})
		return outcome
	}

	if ok := s.importUsers(ctx, batch.Users, strategy, opts, &outcome); !ok {
		return outcome
	}
	if ok := s.importProgress(ctx, batch.Progress, strategy, opts, &outcome); !ok {
		return outcome
	}
	if ok := s.importSettings(ctx, batch.Settings, strategy, opts, &outcome); !ok {
		return outcome
	}

	reportProgress(opts, ProgressUpdate{Phase: PhaseComplete, Current: 1, Total: 1, Message: "Import complete"})
	return outcome
}

func (s *Service) importUsers(ctx context.Context, users []entities.User, strategy MergeStrategy, opts Options, outcome *Outcome) bool {
	if len(users) == 0 {
		return true
	}
	reportProgress(opts, ProgressUpdate{Phase: PhaseProcessing, Current: 0, Total: len(users), Message: "Importing users"})

	for _, incoming := range users {
		existing, err := s.storage.GetUser(ctx, incoming.ID)
		if err != nil {
			recordStorageIssue(outcome, "user", incoming.ID, err)
			outcome.Skipped.Users++
			continue
		}

		record := incoming
		if existing != nil {
			resolution, err := s.resolveConflict(strategy, opts, Conflict{
				Type:     RecordTypeUsers,
				ID:       incoming.ID,
				Existing: existing,
				Incoming: incoming,
			}, outcome)
			if err != nil {
				return false
			}
			if resolution == ResolutionKeepExisting {
				outcome.Skipped.Users++
				continue
			}
			if resolution == ResolutionMerge {
				record = existing.Merge(incoming)
			}
		}

		if err := s.storage.SetUser(ctx, &record); err != nil {
			recordStorageIssue(outcome, "user", incoming.ID, err)
			outcome.Skipped.Users++
			continue
		}
		outcome.Imported.Users++
	}
	return true
}

func (s *Service) importProgress(ctx context.Context, records []entities.Progress, strategy MergeStrategy, opts Options, outcome *Outcome) bool {
	if len(records) == 0 {
		return true
	}
	reportProgress(opts, ProgressUpdate{Phase: PhaseProcessing, Current: 0, Total: len(records), Message: "Importing progress"})

	for _, incoming := range records {
		existing, err := s.storage.GetProgress(ctx, incoming.UserID)
		if err != nil {
			recordStorageIssue(outcome, "progress", incoming.UserID, err)
			outcome.Skipped.Progress++
			continue
		}

		record := incoming
		if existing != nil {
			resolution, err := s.resolveConflict(strategy, opts, Conflict{
				Type:     RecordTypeProgress,
				ID:       incoming.UserID,
				Existing: existing,
				Incoming: incoming,
			}, outcome)
			if err != nil {
				return false
			}
			if resolution == ResolutionKeepExisting {
				outcome.Skipped.Progress++
				continue
			}
			if resolution == ResolutionMerge {
				record = mergeProgress(existing, incoming)
			}
		}

		if err := s.storage.SetProgress(ctx, &record); err != nil {
			recordStorageIssue(outcome, "progress", incoming.UserID, err)
			outcome.Skipped.Progress++
			continue
		}
		outcome.Imported.Progress++
	}
	return true
}

func (s *Service) importSettings(ctx context.Context, records []entities.Settings, strategy MergeStrategy, opts Options, outcome *Outcome) bool {
	if len(records) == 0 {
		return true
	}
	reportProgress(opts, ProgressUpdate{Phase: PhaseProcessing, Current: 0, Total: len(records), Message: "Importing settings"})

	for _, incoming := range records {
		existing, err := s.storage.GetSettings(ctx, incoming.UserID)
		if err != nil {
			recordStorageIssue(outcome, "settings", incoming.UserID, err)
			outcome.Skipped.Settings++
			continue
		}

		record := incoming
		if existing != nil {
			resolution, err := s.resolveConflict(strategy, opts, Conflict{
				Type:     RecordTypeSettings,
				ID:       incoming.UserID,
				Existing: existing,
				Incoming: incoming,
			}, outcome)
			if err != nil {
				return false
			}
			if resolution == ResolutionKeepExisting {
				outcome.Skipped.Settings++
				continue
			}
			if resolution == ResolutionMerge {
				record = existing.Merge(incoming)
			}
		}

		if err := s.storage.SetSettings(ctx, &record); err != nil {
			recordStorageIssue(outcome, "settings", incoming.UserID, err)
			outcome.Skipped.Settings++
			continue
		}
		outcome.Imported.Settings++
	}
	return true
}

// resolveConflict maps the active strategy to a resolution, records the
// resolved conflict on the outcome, and surfaces a callback error as a
// fatal merge issue.
func (s *Service) resolveConflict(strategy MergeStrategy, opts Options, conflict Conflict, outcome *Outcome) (Resolution, error) {
	var resolution Resolution
	switch strategy {
	case StrategySkip:
		resolution = ResolutionKeepExisting
	case StrategyOverwrite:
		resolution = ResolutionUseIncoming
	case StrategyMerge:
		resolution = ResolutionMerge
	default:
		if opts.OnConflict == nil {
			resolution = ResolutionKeepExisting
			break
		}
		var err error
		resolution, err = opts.OnConflict(conflict)
		if err != nil {
			outcome.Success = false
			outcome.Errors = append(outcome.Errors, Issue{
				Type:        IssueMerge,
				Field:       fmt.Sprintf("%s.%s", conflict.Type, conflict.ID),
				Message:     fmt.Sprintf("conflict resolution failed: %v", err),
				Recoverable: false,
			})
			return "", err
		}
	}

	conflict.Resolution = resolution
	outcome.Conflicts = append(outcome.Conflicts, conflict)
	return resolution, nil
}

// mergeProgress combines two progress records additively: counters are
// summed and the merge moment is stamped, while the rest of the existing
// record is retained.
func mergeProgress(existing *entities.Progress, incoming entities.Progress) entities.Progress {
	merged := *existing
	merged.QuestionsAnswered += incoming.QuestionsAnswered
	merged.CorrectAnswers += incoming.CorrectAnswers
	merged.QuizzesTaken += incoming.QuizzesTaken
	merged.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return merged
}

func recordStorageIssue(outcome *Outcome, kind, id string, err error) {
	outcome.Errors = append(outcome.Errors, Issue{
		Type:        IssueStorage,
		Field:       fmt.Sprintf("%s.%s", kind, id),
		Message:     fmt.Sprintf("failed to store %s %s: %v", kind, id, err),
		Recoverable: true,
	})
}

func reportProgress(opts Options, update ProgressUpdate) {
	if opts.OnProgress != nil {
		opts.OnProgress(update)
	}
}

// MigrateTo moves the active user's records from this service's backend
// to target. Records are merged into whatever target already holds; an
// empty session is a successful no-op.
func (s *Service) MigrateTo(ctx context.Context, target storage.Service, opts Options) Outcome {
	session, err := s.storage.GetSession(ctx)
	if err != nil {
		return failedOutcome(Issue{
			Type:        IssueStorage,
			Message:     fmt.Sprintf("failed to read session: %v", err),
			Recoverable: false,
		})
	}
	userID := session.UserID()
	if userID == "" {
		log.Printf("importer: no active session, nothing to migrate")
		return newOutcome()
	}

	batch := &Batch{}
	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return failedOutcome(Issue{
			Type:        IssueStorage,
			Message:     fmt.Sprintf("failed to read user %s: %v", userID, err),
			Recoverable: false,
		})
	}
	if user != nil {
		batch.Users = append(batch.Users, *user)
	}
	progress, err := s.storage.GetProgress(ctx, userID)
	if err != nil {
		return failedOutcome(Issue{
			Type:        IssueStorage,
			Message:     fmt.Sprintf("failed to read progress for %s: %v", userID, err),
			Recoverable: false,
		})
	}
	if progress != nil {
		batch.Progress = append(batch.Progress, *progress)
	}
	settings, err := s.storage.GetSettings(ctx, userID)
	if err != nil {
		return failedOutcome(Issue{
			Type:        IssueStorage,
			Message:     fmt.Sprintf("failed to read settings for %s: %v", userID, err),
			Recoverable: false,
		})
	}
	if settings != nil {
		batch.Settings = append(batch.Settings, *settings)
	}

	if batch.Empty() {
		log.Printf("importer: no records found for user %s, nothing to migrate", userID)
		return newOutcome()
	}

	if opts.MergeStrategy == "" {
		opts.MergeStrategy = StrategyMerge
	}
	log.Printf("importer: migrating data for user %s", userID)
	return NewService(target).ImportData(ctx, batch, opts)
}
