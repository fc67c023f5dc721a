package repository

import (
	"foodsafe_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) CreateQuiz(q *model.Quiz) error {
	return r.DB.Create(q).Error
}

func (r *QuizRepository) FindQuizByID(id uint) (*model.Quiz, error) {
	var q model.Quiz
	err := r.DB.First(&q, id).Error
	return &q, err
}

// FindQuizForUpdate takes an exclusive row lock on the quiz inside tx, which
// serializes authoring against publish-time validation. SQLite has no row
// locks; its transactions are already serialized.
func (r *QuizRepository) FindQuizForUpdate(tx *gorm.DB, id uint) (*model.Quiz, error) {
	if tx.Dialector.Name() != "sqlite" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var q model.Quiz
	err := tx.First(&q, id).Error
	return &q, err
}

func (r *QuizRepository) SaveQuiz(tx *gorm.DB, q *model.Quiz) error {
	return tx.Save(q).Error
}

func (r *QuizRepository) ListQuizzesByProgram(programID uint) ([]model.Quiz, error) {
	var qs []model.Quiz
	err := r.DB.Where("program_id = ?", programID).Order("created_at desc").Find(&qs).Error
	return qs, err
}

func (r *QuizRepository) ListQuizzes(page, limit int, programID uint) ([]model.Quiz, int64, error) {
	var qs []model.Quiz
	var total int64
	query := r.DB.Model(&model.Quiz{})
	if programID > 0 {
		query = query.Where("program_id = ?", programID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&qs).Error
	return qs, total, err
}

func (r *QuizRepository) CreateQuestion(tx *gorm.DB, q *model.QuizQuestion) error {
	return tx.Create(q).Error
}

func (r *QuizRepository) FindQuestionByID(id uint) (*model.QuizQuestion, error) {
	var q model.QuizQuestion
	err := r.DB.First(&q, id).Error
	return &q, err
}

func (r *QuizRepository) ListQuestions(quizID uint) ([]model.QuizQuestion, error) {
	var qs []model.QuizQuestion
	err := r.DB.Where("quiz_id = ?", quizID).Order("order_index asc").Find(&qs).Error
	return qs, err
}

func (r *QuizRepository) ListQuestionsTx(tx *gorm.DB, quizID uint) ([]model.QuizQuestion, error) {
	var qs []model.QuizQuestion
	err := tx.Where("quiz_id = ?", quizID).Order("order_index asc").Find(&qs).Error
	return qs, err
}

func (r *QuizRepository) CreateOption(tx *gorm.DB, o *model.QuizOption) error {
	return tx.Create(o).Error
}

func (r *QuizRepository) ListOptionsByQuestionIDs(tx *gorm.DB, questionIDs []uint) ([]model.QuizOption, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}
	var os []model.QuizOption
	err := tx.Where("question_id IN ?", questionIDs).Order("id asc").Find(&os).Error
	return os, err
}
