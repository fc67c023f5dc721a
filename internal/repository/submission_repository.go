package repository

import (
	"foodsafe_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

// Create inserts a new submission row; submissions are never updated or
// deleted, every attempt stays on record.
func (r *SubmissionRepository) Create(s *model.QuizSubmission) error {
	return r.DB.Create(s).Error
}

func (r *SubmissionRepository) ListByUserAndQuizzes(userID uint, quizIDs []uint) ([]model.QuizSubmission, error) {
	if len(quizIDs) == 0 {
		return nil, nil
	}
	var ss []model.QuizSubmission
	err := r.DB.Where("user_id = ? AND quiz_id IN ?", userID, quizIDs).
		Order("submitted_at desc, id desc").Find(&ss).Error
	return ss, err
}

func (r *SubmissionRepository) ListByQuiz(quizID uint, page, limit int) ([]model.QuizSubmission, int64, error) {
	var ss []model.QuizSubmission
	var total int64
	query := r.DB.Model(&model.QuizSubmission{}).Where("quiz_id = ?", quizID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("submitted_at desc, id desc").Offset(offset).Limit(limit).Find(&ss).Error
	return ss, total, err
}

func (r *SubmissionRepository) ListByUser(userID uint) ([]model.QuizSubmission, error) {
	var ss []model.QuizSubmission
	err := r.DB.Where("user_id = ?", userID).Order("submitted_at desc, id desc").Find(&ss).Error
	return ss, err
}
