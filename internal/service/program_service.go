package service

import (
	"context"
	"encoding/json"

	"foodsafe_backend/internal/model"
	"foodsafe_backend/internal/repository"
	"foodsafe_backend/internal/util"

	"gorm.io/gorm"
)

// ProgramService manages the program registry. Programs are compliance
// artifacts: destructive deletion is refused while dependent sessions or
// quizzes exist; archival is the supported way to retire one.
type ProgramService struct {
	Repo   *repository.ProgramRepository
	Matrix *MatrixService
}

func NewProgramService(repo *repository.ProgramRepository, matrix *MatrixService) *ProgramService {
	return &ProgramService{Repo: repo, Matrix: matrix}
}

// invalidateMatrices: program rows shape every user's matrix, so registry
// writes bump the shared cache version rather than one user's entry.
func (s *ProgramService) invalidateMatrices() {
	if s.Matrix != nil {
		s.Matrix.InvalidateAll(context.Background())
	}
}

type ProgramRequest struct {
	Code           string          `json:"code"`
	Title          *string         `json:"title"`
	Description    *string         `json:"description"`
	Department     *string         `json:"department"`
	MandatoryRoles json.RawMessage `json:"mandatoryRoles"`
}

func (s *ProgramService) CreateProgram(req ProgramRequest) (*model.Program, error) {
	if req.Code == "" || req.Title == nil || *req.Title == "" {
		return nil, util.ErrProgramFieldsEmpty
	}

	if _, err := s.Repo.FindByCode(req.Code); err == nil {
		return nil, util.ErrProgramCodeTaken
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	p := &model.Program{
		Code:           req.Code,
		Title:          *req.Title,
		MandatoryRoles: req.MandatoryRoles,
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Department != nil {
		p.Department = *req.Department
	}

	if err := s.Repo.Create(p); err != nil {
		return nil, err
	}
	s.invalidateMatrices()
	return p, nil
}

// UpdateProgram edits a program in place. The code is frozen as soon as a
// session references the program, since sessions are addressed by it in
// audit exports.
func (s *ProgramService) UpdateProgram(id uint, req ProgramRequest) (*model.Program, error) {
	p, err := s.Repo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrProgramNotFound
		}
		return nil, err
	}

	if req.Code != "" && req.Code != p.Code {
		sessions, err := s.Repo.CountSessions(id)
		if err != nil {
			return nil, err
		}
		if sessions > 0 {
			return nil, util.ErrProgramCodeFrozen
		}
		if _, err := s.Repo.FindByCode(req.Code); err == nil {
			return nil, util.ErrProgramCodeTaken
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		p.Code = req.Code
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Department != nil {
		p.Department = *req.Department
	}
	if req.MandatoryRoles != nil {
		p.MandatoryRoles = req.MandatoryRoles
	}

	if err := s.Repo.Update(p); err != nil {
		return nil, err
	}
	s.invalidateMatrices()
	return p, nil
}

func (s *ProgramService) GetProgram(id uint) (*model.Program, error) {
	p, err := s.Repo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrProgramNotFound
	}
	return p, err
}

func (s *ProgramService) ListPrograms(page, limit int) ([]model.Program, int64, error) {
	return s.Repo.List(page, limit)
}

// DeleteProgram hard-deletes only when no sessions or quizzes depend on the
// program; otherwise it fails with HasDependents instead of cascading.
func (s *ProgramService) DeleteProgram(id uint) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrProgramNotFound
		}
		return err
	}

	sessions, err := s.Repo.CountSessions(id)
	if err != nil {
		return err
	}
	if sessions > 0 {
		return &util.HasDependentsError{Resource: "program", Dependents: "sessions"}
	}

	quizzes, err := s.Repo.CountQuizzes(id)
	if err != nil {
		return err
	}
	if quizzes > 0 {
		return &util.HasDependentsError{Resource: "program", Dependents: "quizzes"}
	}

	if err := s.Repo.HardDelete(id); err != nil {
		return err
	}
	s.invalidateMatrices()
	return nil
}

// ArchiveProgram retires a program without touching its evidence; archived
// programs drop out of listings and of the training matrix.
func (s *ProgramService) ArchiveProgram(id uint) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrProgramNotFound
		}
		return err
	}
	if err := s.Repo.Archive(id); err != nil {
		return err
	}
	s.invalidateMatrices()
	return nil
}
