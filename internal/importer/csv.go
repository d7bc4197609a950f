package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/polyglottos/dataport/internal/entities"
)

// fieldSynonyms maps known CSV header spellings to canonical field names.
// Order matters: the first entry whose variants contain the header wins,
// so lookups stay deterministic. Headers with no known synonym map to
// themselves verbatim.
var fieldSynonyms = []struct {
	field    string
	variants []string
}{
	{"userId", []string{"userid", "user_id", "user id", "uid"}},
	{"id", []string{"id"}},
	{"username", []string{"username", "user_name", "user name", "name"}},
	{"email", []string{"email", "e-mail", "mail", "email address"}},
	{"questionsAnswered", []string{"questionsanswered", "questions_answered", "questions answered", "total_questions"}},
	{"correctAnswers", []string{"correctanswers", "correct_answers", "correct answers", "correct"}},
	{"quizzesTaken", []string{"quizzestaken", "quizzes_taken", "quizzes taken", "total_quizzes"}},
	{"language", []string{"language", "lang", "locale"}},
	{"theme", []string{"theme", "ui_theme", "appearance"}},
	{"notificationFrequency", []string{"notification_frequency", "notifications", "notify"}},
	{"isPrivate", []string{"is_private", "private", "visibility"}},
	{"goals", []string{"goals", "user_goals", "learning_goals"}},
	{"cumulativeStats", []string{"cumulative_stats", "stats", "statistics"}},
	{"lastUpdated", []string{"last_updated", "updated_at", "modified", "last_modified"}},
	{"createdAt", []string{"created_at", "created", "created_date"}},
}

var counterFields = map[string]bool{
	"questionsAnswered": true,
	"correctAnswers":    true,
	"quizzesTaken":      true,
}

var requiredFields = map[RecordType][]string{
	RecordTypeUsers:    {"id", "username", "email"},
	RecordTypeProgress: {"id", "userId"},
	RecordTypeSettings: {"userId"},
}

// ParseCSV turns raw CSV text into a batch of records of the given type.
// Rows missing required fields (or unreadable rows) are reported as
// recoverable issues, excluded from the batch, and do not abort the
// parse.
func ParseCSV(content string, recordType RecordType) (*Batch, []Issue) {
	var issues []Issue
	addIssue := func(message string) {
		issues = append(issues, Issue{Type: IssueValidation, Message: message, Recoverable: true})
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		addIssue("invalid CSV: no data found")
		return nil, issues
	}

	mapping := mapHeaders(header)

	batch := &Batch{}
	lineNum := 1
	for {
		lineNum++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			addIssue(fmt.Sprintf("row %d: %v", lineNum, err))
			continue
		}

		fields := rowFields(row, mapping)
		if len(fields) == 0 {
			continue
		}

		if missing := missingRequired(fields, recordType); len(missing) > 0 {
			addIssue(fmt.Sprintf("row %d: missing required fields for %s: %s",
				lineNum, recordType, strings.Join(missing, ", ")))
			continue
		}

		switch recordType {
		case RecordTypeUsers:
			batch.Users = append(batch.Users, rowToUser(fields))
		case RecordTypeProgress:
			batch.Progress = append(batch.Progress, rowToProgress(fields))
		case RecordTypeSettings:
			batch.Settings = append(batch.Settings, rowToSettings(fields))
		}
	}

	return batch, issues
}

// mapHeaders resolves each header, case-insensitively and trimmed, to its
// canonical field name.
func mapHeaders(header []string) []string {
	mapping := make([]string, len(header))
	for i, h := range header {
		normalized := strings.ToLower(strings.TrimSpace(h))
		mapping[i] = strings.TrimSpace(h)
		for _, syn := range fieldSynonyms {
			matched := false
			for _, v := range syn.variants {
				if v == normalized {
					matched = true
					break
				}
			}
			if matched {
				mapping[i] = syn.field
				break
			}
		}
	}
	return mapping
}

// rowFields applies the header mapping and per-field coercion. Empty
// values are treated as absent; fully blank rows come back empty.
func rowFields(row []string, mapping []string) map[string]any {
	fields := make(map[string]any)
	for i := 0; i < len(row) && i < len(mapping); i++ {
		value := strings.TrimSpace(row[i])
		if value == "" {
			continue
		}
		fields[mapping[i]] = coerceValue(mapping[i], value)
	}
	return fields
}

func coerceValue(field, value string) any {
	if field == "isPrivate" {
		lower := strings.ToLower(value)
		return lower == "true" || value == "1" || lower == "yes"
	}
	if counterFields[field] {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0
		}
		return n
	}
	return value
}

func missingRequired(fields map[string]any, recordType RecordType) []string {
	var missing []string
	for _, f := range requiredFields[recordType] {
		if _, ok := fields[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

func fieldString(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func fieldInt(fields map[string]any, key string) int {
	n, _ := fields[key].(int)
	return n
}

func rowToUser(fields map[string]any) entities.User {
	return entities.User{
		ID:        fieldString(fields, "id"),
		Username:  fieldString(fields, "username"),
		Email:     fieldString(fields, "email"),
		CreatedAt: fieldString(fields, "createdAt"),
	}
}

func rowToProgress(fields map[string]any) entities.Progress {
	return entities.Progress{
		ID:                fieldString(fields, "id"),
		UserID:            fieldString(fields, "userId"),
		QuestionsAnswered: fieldInt(fields, "questionsAnswered"),
		CorrectAnswers:    fieldInt(fields, "correctAnswers"),
		QuizzesTaken:      fieldInt(fields, "quizzesTaken"),
		Goals:             fieldString(fields, "goals"),
		CumulativeStats:   fieldString(fields, "cumulativeStats"),
		LastUpdated:       fieldString(fields, "lastUpdated"),
	}
}

var settingsTypedFields = map[string]bool{
	"userId":                true,
	"language":              true,
	"theme":                 true,
	"notificationFrequency": true,
	"isPrivate":             true,
}

func rowToSettings(fields map[string]any) entities.Settings {
	settings := entities.Settings{UserID: fieldString(fields, "userId")}
	if v, ok := fields["language"].(string); ok {
		settings.Language = &v
	}
	if v, ok := fields["theme"].(string); ok {
		settings.Theme = &v
	}
	if v, ok := fields["notificationFrequency"].(string); ok {
		settings.NotificationFrequency = &v
	}
	if v, ok := fields["isPrivate"].(bool); ok {
		settings.IsPrivate = &v
	}
	for k, v := range fields {
		if settingsTypedFields[k] {
			continue
		}
		if settings.Extra == nil {
			settings.Extra = make(map[string]any)
		}
		settings.Extra[k] = v
	}
	return settings
}
