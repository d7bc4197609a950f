package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Progress tracks a user's cumulative learning activity. There is exactly
// one Progress record per user; the primary key is a generated id, lookups
// go through UserID.
type Progress struct {
	ID                string `gorm:"primaryKey;size:128" json:"id"`
	UserID            string `gorm:"index;size:64" json:"userId"`
	QuestionsAnswered int    `json:"questionsAnswered"`
	CorrectAnswers    int    `json:"correctAnswers"`
	QuizzesTaken      int    `json:"quizzesTaken"`
	Goals             string `gorm:"type:text" json:"goals,omitempty"`
	CumulativeStats   string `gorm:"type:text" json:"cumulativeStats,omitempty"`
	LastUpdated       string `gorm:"size:64" json:"lastUpdated"`
}

func (Progress) TableName() string {
	return "progress"
}

// NewProgress creates an empty progress record for a user with a
// generated id and a current LastUpdated stamp.
func NewProgress(userID string) *Progress {
	return &Progress{
		ID:          fmt.Sprintf("progress_%s_%s", userID, uuid.NewString()),
		UserID:      userID,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}
}

// ProgressPatch is a partial update for a Progress record. Nil fields
// are left untouched.
type ProgressPatch struct {
	QuestionsAnswered *int
	CorrectAnswers    *int
	QuizzesTaken      *int
	Goals             *string
	CumulativeStats   *string
}

// Apply writes the non-nil patch fields onto p and stamps LastUpdated.
func (patch ProgressPatch) Apply(p *Progress) {
	if patch.QuestionsAnswered != nil {
		p.QuestionsAnswered = *patch.QuestionsAnswered
	}
	if patch.CorrectAnswers != nil {
		p.CorrectAnswers = *patch.CorrectAnswers
	}
	if patch.QuizzesTaken != nil {
		p.QuizzesTaken = *patch.QuizzesTaken
	}
	if patch.Goals != nil {
		p.Goals = *patch.Goals
	}
	if patch.CumulativeStats != nil {
		p.CumulativeStats = *patch.CumulativeStats
	}
	p.LastUpdated = time.Now().UTC().Format(time.RFC3339)
}
