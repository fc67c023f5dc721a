package model

import "time"

// Certificate is a proof-of-completion artifact issued for a session
// attendee. The file itself lives in the blob store; only the reference is
// kept here. Immutable once issued.
// swagger:model Certificate
type Certificate struct {
	BaseModel
	SessionID        uint      `gorm:"index;not null" json:"sessionId"`
	UserID           uint      `gorm:"index;not null" json:"userId"`
	FileReference    string    `gorm:"size:512;not null" json:"fileReference"`
	IssuedAt         time.Time `gorm:"not null" json:"issuedAt"`
	VerificationCode string    `gorm:"size:36;uniqueIndex;not null" json:"verificationCode"`
}

func (Certificate) TableName() string {
	return "certificates"
}
