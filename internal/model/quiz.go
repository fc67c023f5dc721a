package model

import "time"

// Quiz is a scored assessment belonging to a Program. While IsPublished is
// false it is a mutable draft and cannot be taken; publishing freezes the
// question set permanently. Content changes after publish require a new
// quiz version, never a mutation.
// swagger:model Quiz
type Quiz struct {
	BaseModel
	ProgramID     uint       `gorm:"index;not null" json:"programId"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Description   string     `gorm:"type:text" json:"description"`
	PassThreshold int        `gorm:"not null;default:0" json:"passThreshold"` // percent, inclusive boundary
	IsPublished   bool       `gorm:"default:false" json:"isPublished"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion carries its presentation order; order_index values are unique
// per quiz and must form a contiguous sequence from 0 at publish time.
// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizID     uint   `gorm:"index;not null" json:"quizId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	OrderIndex int    `gorm:"not null;default:0" json:"orderIndex"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizOption: exactly one option per question is correct at publish time.
// swagger:model QuizOption
type QuizOption struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (QuizOption) TableName() string {
	return "quiz_options"
}
