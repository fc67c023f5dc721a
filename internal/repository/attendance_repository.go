package repository

import (
	"foodsafe_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceRepository struct {
	DB *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

// Upsert inserts the attendance row or, when (session_id, user_id) already
// exists, overwrites its attended flag and comments in place.
func (r *AttendanceRepository) Upsert(a *model.Attendance) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"attended", "comments", "updated_at"}),
	}).Create(a).Error
}

func (r *AttendanceRepository) FindBySessionAndUser(sessionID, userID uint) (*model.Attendance, error) {
	var a model.Attendance
	err := r.DB.Where("session_id = ? AND user_id = ?", sessionID, userID).First(&a).Error
	return &a, err
}

func (r *AttendanceRepository) ListBySession(sessionID uint) ([]model.Attendance, error) {
	var as []model.Attendance
	err := r.DB.Where("session_id = ?", sessionID).Order("user_id asc").Find(&as).Error
	return as, err
}

func (r *AttendanceRepository) ListByUserAndSessions(userID uint, sessionIDs []uint) ([]model.Attendance, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	var as []model.Attendance
	err := r.DB.Where("user_id = ? AND session_id IN ?", userID, sessionIDs).Find(&as).Error
	return as, err
}
