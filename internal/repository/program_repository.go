package repository

import (
	"foodsafe_backend/internal/model"

	"gorm.io/gorm"
)

type ProgramRepository struct {
	DB *gorm.DB
}

func NewProgramRepository(db *gorm.DB) *ProgramRepository {
	return &ProgramRepository{DB: db}
}

func (r *ProgramRepository) Create(p *model.Program) error {
	return r.DB.Create(p).Error
}

func (r *ProgramRepository) FindByID(id uint) (*model.Program, error) {
	var p model.Program
	err := r.DB.First(&p, id).Error
	return &p, err
}

func (r *ProgramRepository) FindByCode(code string) (*model.Program, error) {
	var p model.Program
	err := r.DB.Where("code = ?", code).First(&p).Error
	return &p, err
}

// ListAll returns every non-archived program; the matrix builder needs the
// full registry, not a page.
func (r *ProgramRepository) ListAll() ([]model.Program, error) {
	var ps []model.Program
	err := r.DB.Order("code asc").Find(&ps).Error
	return ps, err
}

func (r *ProgramRepository) List(page, limit int) ([]model.Program, int64, error) {
	var ps []model.Program
	var total int64
	query := r.DB.Model(&model.Program{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("code asc").Offset(offset).Limit(limit).Find(&ps).Error
	return ps, total, err
}

func (r *ProgramRepository) Update(p *model.Program) error {
	return r.DB.Save(p).Error
}

// Archive soft-deletes the program; evidence underneath is untouched.
func (r *ProgramRepository) Archive(id uint) error {
	return r.DB.Delete(&model.Program{}, id).Error
}

// HardDelete is only legal for programs with no dependents.
func (r *ProgramRepository) HardDelete(id uint) error {
	return r.DB.Unscoped().Delete(&model.Program{}, id).Error
}

func (r *ProgramRepository) CountSessions(programID uint) (int64, error) {
	var n int64
	err := r.DB.Model(&model.TrainingSession{}).Where("program_id = ?", programID).Count(&n).Error
	return n, err
}

func (r *ProgramRepository) CountQuizzes(programID uint) (int64, error) {
	var n int64
	err := r.DB.Model(&model.Quiz{}).Where("program_id = ?", programID).Count(&n).Error
	return n, err
}
