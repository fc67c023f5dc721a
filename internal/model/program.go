package model

import "encoding/json"

// Program is a recurring training topic, e.g. "Allergen Control Refresher".
// Programs are compliance artifacts: once sessions or quizzes reference one
// it can only be archived (soft delete), never destroyed.
// swagger:model Program
type Program struct {
	BaseModel
	Code           string          `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Title          string          `gorm:"size:255;not null" json:"title"`
	Description    string          `gorm:"type:text" json:"description"`
	Department     string          `gorm:"size:100" json:"department,omitempty"`
	MandatoryRoles json.RawMessage `gorm:"type:json" json:"mandatoryRoles,omitempty"` // JSON: []UserRole
}

func (Program) TableName() string {
	return "programs"
}
