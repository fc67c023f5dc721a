package model

// Attendance records a user's presence at one session. At most one row per
// (session, user); re-marking updates the existing row.
// swagger:model Attendance
type Attendance struct {
	BaseModel
	SessionID uint   `gorm:"uniqueIndex:idx_attendance_session_user;not null" json:"sessionId"`
	UserID    uint   `gorm:"uniqueIndex:idx_attendance_session_user;not null" json:"userId"`
	Attended  bool   `gorm:"default:false" json:"attended"`
	Comments  string `gorm:"type:text" json:"comments"`
}

func (Attendance) TableName() string {
	return "attendances"
}
