package model

import "time"

// TrainingSession is one scheduled delivery of a Program.
// swagger:model TrainingSession
type TrainingSession struct {
	BaseModel
	ProgramID uint      `gorm:"index;not null" json:"programId"`
	Date      time.Time `gorm:"not null" json:"date"`
	Location  string    `gorm:"size:255" json:"location"`
	Trainer   string    `gorm:"size:100" json:"trainer"`
	Notes     string    `gorm:"type:text" json:"notes"`
}

func (TrainingSession) TableName() string {
	return "training_sessions"
}
