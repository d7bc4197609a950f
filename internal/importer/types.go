// Package importer implements the import, validation and migration
// pipeline: parsed batches are validated, reconciled record-by-record
// against what a storage backend already holds, and written out under a
// caller-chosen merge strategy.
package importer

import "github.com/polyglottos/dataport/internal/entities"

// RecordType names one of the importable record collections.
type RecordType string

const (
	RecordTypeUsers    RecordType = "users"
	RecordTypeProgress RecordType = "progress"
	RecordTypeSettings RecordType = "settings"
)

// Metadata describes where an import batch came from.
type Metadata struct {
	Version    string `json:"version,omitempty"`
	ExportDate string `json:"exportDate,omitempty"`
	Format     string `json:"format,omitempty"`
}

// Batch is the structured set of records imported in one call. It is
// constructed from parsed JSON or CSV, validated, then consumed
// record-by-record and discarded.
type Batch struct {
	Metadata *Metadata           `json:"metadata,omitempty"`
	Users    []entities.User     `json:"users,omitempty"`
	Progress []entities.Progress `json:"progress,omitempty"`
	Settings []entities.Settings `json:"settings,omitempty"`
}

// Empty reports whether the batch carries no records at all.
func (b *Batch) Empty() bool {
	return b == nil || (len(b.Users) == 0 && len(b.Progress) == 0 && len(b.Settings) == 0)
}

// IssueType classifies an import issue.
type IssueType string

const (
	IssueValidation IssueType = "validation"
	IssueMerge      IssueType = "merge"
	IssueStorage    IssueType = "storage"
)

// Issue is one problem found while importing. Recoverable issues skip a
// single record; non-recoverable ones abort the call before any write.
type Issue struct {
	Type        IssueType `json:"type"`
	Field       string    `json:"field,omitempty"`
	Message     string    `json:"message"`
	Recoverable bool      `json:"recoverable"`
}

// Resolution is the decision made for one conflict.
type Resolution string

const (
	ResolutionKeepExisting Resolution = "keep_existing"
	ResolutionUseIncoming  Resolution = "use_incoming"
	ResolutionMerge        Resolution = "merge"
)

// Conflict pairs an incoming record with the stored record sharing its key.
type Conflict struct {
	Type       RecordType `json:"type"`
	ID         string     `json:"id"`
	Existing   any        `json:"existing"`
	Incoming   any        `json:"incoming"`
	Resolution Resolution `json:"resolution,omitempty"`
}

// MergeStrategy is the policy for resolving conflicts.
type MergeStrategy string

const (
	StrategySkip      MergeStrategy = "skip"
	StrategyOverwrite MergeStrategy = "overwrite"
	StrategyMerge     MergeStrategy = "merge"
	StrategyAsk       MergeStrategy = "ask"
)

// Phase names a stage of an import for progress reporting.
type Phase string

const (
	PhaseValidating Phase = "validating"
	PhaseProcessing Phase = "processing"
	PhaseComplete   Phase = "complete"
)

// ProgressUpdate is delivered to the progress callback at phase
// boundaries. Current and Total are per-phase counts, not a running
// global total.
type ProgressUpdate struct {
	Phase   Phase  `json:"phase"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// Options tune one import or migration call.
type Options struct {
	// MergeStrategy defaults to StrategyAsk.
	MergeStrategy MergeStrategy

	// ValidateOnly runs validation and returns without writing.
	ValidateOnly bool

	// OnProgress, when set, receives phase-boundary updates.
	OnProgress func(ProgressUpdate)

	// OnConflict, when set, decides each conflict under StrategyAsk.
	// Caller contract: when StrategyAsk is in effect and OnConflict is
	// nil, every conflict silently resolves to keep_existing.
	OnConflict func(Conflict) (Resolution, error)
}

// Counts tallies records per collection.
type Counts struct {
	Users    int `json:"users"`
	Progress int `json:"progress"`
	Settings int `json:"settings"`
}

// Outcome is the complete result of one import or migration call.
type Outcome struct {
	Success   bool       `json:"success"`
	Imported  Counts     `json:"imported"`
	Skipped   Counts     `json:"skipped"`
	Errors    []Issue    `json:"errors"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
}

func newOutcome() Outcome {
	return Outcome{Success: true, Errors: []Issue{}}
}

// failedOutcome builds an outcome carrying a single fatal issue.
func failedOutcome(issue Issue) Outcome {
	return Outcome{Success: false, Errors: []Issue{issue}}
}
