package repository

import (
	"foodsafe_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(s *model.TrainingSession) error {
	return r.DB.Create(s).Error
}

func (r *SessionRepository) FindByID(id uint) (*model.TrainingSession, error) {
	var s model.TrainingSession
	err := r.DB.First(&s, id).Error
	return &s, err
}

func (r *SessionRepository) ListByProgram(programID uint) ([]model.TrainingSession, error) {
	var ss []model.TrainingSession
	err := r.DB.Where("program_id = ?", programID).Order("date desc").Find(&ss).Error
	return ss, err
}

func (r *SessionRepository) List(page, limit int, programID uint) ([]model.TrainingSession, int64, error) {
	var ss []model.TrainingSession
	var total int64
	query := r.DB.Model(&model.TrainingSession{})
	if programID > 0 {
		query = query.Where("program_id = ?", programID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("date desc").Offset(offset).Limit(limit).Find(&ss).Error
	return ss, total, err
}

func (r *SessionRepository) Update(s *model.TrainingSession) error {
	return r.DB.Save(s).Error
}

// DeleteCascade removes the session together with its attendance and
// certificate rows in one transaction, so the matrix never sees orphaned
// evidence. Evidence rows go out hard: the unique (session, user) key on
// attendance must free up.
func (r *SessionRepository) DeleteCascade(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("session_id = ?", id).Delete(&model.Attendance{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("session_id = ?", id).Delete(&model.Certificate{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.TrainingSession{}, id).Error
	})
}
