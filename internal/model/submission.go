package model

import (
	"encoding/json"
	"time"
)

// QuizSubmission is one user's graded attempt at a published quiz. Rows are
// immutable once created: a new attempt inserts a new row, and every attempt
// is retained for audit.
// swagger:model QuizSubmission
type QuizSubmission struct {
	BaseModel
	QuizID       uint            `gorm:"index;not null" json:"quizId"`
	UserID       uint            `gorm:"index;not null" json:"userId"`
	Answers      json.RawMessage `gorm:"type:json" json:"answers"` // JSON: map[questionID]optionID
	ScorePercent float64         `gorm:"type:decimal(5,1);not null" json:"scorePercent"`
	Passed       bool            `gorm:"not null" json:"passed"`
	SubmittedAt  time.Time       `gorm:"index;not null" json:"submittedAt"`
}

func (QuizSubmission) TableName() string {
	return "quiz_submissions"
}

// AnswerMap is the wire and storage form of a learner's answers.
type AnswerMap map[uint]uint
