package service

import (
	"context"
	"time"

	"foodsafe_backend/internal/model"
	"foodsafe_backend/internal/repository"
	"foodsafe_backend/internal/util"

	"gorm.io/gorm"
)

// SessionService manages the session ledger and its attendance records.
type SessionService struct {
	Repo         *repository.SessionRepository
	Attendance   *repository.AttendanceRepository
	Certificates *repository.CertificateRepository
	Programs     *repository.ProgramRepository
	Matrix       *MatrixService
}

func NewSessionService(
	repo *repository.SessionRepository,
	attendance *repository.AttendanceRepository,
	certificates *repository.CertificateRepository,
	programs *repository.ProgramRepository,
	matrix *MatrixService,
) *SessionService {
	return &SessionService{
		Repo:         repo,
		Attendance:   attendance,
		Certificates: certificates,
		Programs:     programs,
		Matrix:       matrix,
	}
}

type SessionRequest struct {
	ProgramID uint       `json:"programId"`
	Date      *time.Time `json:"date"`
	Location  *string    `json:"location"`
	Trainer   *string    `json:"trainer"`
	Notes     *string    `json:"notes"`
}

func (s *SessionService) CreateSession(req SessionRequest) (*model.TrainingSession, error) {
	if _, err := s.Programs.FindByID(req.ProgramID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrProgramNotFound
		}
		return nil, err
	}
	if req.Date == nil {
		return nil, util.ErrSessionDateMissing
	}

	sess := &model.TrainingSession{
		ProgramID: req.ProgramID,
		Date:      *req.Date,
	}
	if req.Location != nil {
		sess.Location = *req.Location
	}
	if req.Trainer != nil {
		sess.Trainer = *req.Trainer
	}
	if req.Notes != nil {
		sess.Notes = *req.Notes
	}

	if err := s.Repo.Create(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *SessionService) UpdateSession(id uint, req SessionRequest) (*model.TrainingSession, error) {
	sess, err := s.Repo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}

	if req.Date != nil {
		sess.Date = *req.Date
	}
	if req.Location != nil {
		sess.Location = *req.Location
	}
	if req.Trainer != nil {
		sess.Trainer = *req.Trainer
	}
	if req.Notes != nil {
		sess.Notes = *req.Notes
	}

	if err := s.Repo.Update(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *SessionService) GetSession(id uint) (*model.TrainingSession, error) {
	sess, err := s.Repo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrSessionNotFound
	}
	return sess, err
}

func (s *SessionService) ListSessions(page, limit int, programID uint) ([]model.TrainingSession, int64, error) {
	return s.Repo.List(page, limit, programID)
}

// DeleteSession removes the session and all of its attendance and
// certificate evidence in one transaction, then drops the memoized matrix
// of every user that evidence belonged to.
func (s *SessionService) DeleteSession(ctx context.Context, id uint) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrSessionNotFound
		}
		return err
	}

	affected := make(map[uint]bool)
	if attendance, err := s.Attendance.ListBySession(id); err == nil {
		for _, a := range attendance {
			affected[a.UserID] = true
		}
	}
	if certs, err := s.Certificates.ListBySession(id); err == nil {
		for _, c := range certs {
			affected[c.UserID] = true
		}
	}

	if err := s.Repo.DeleteCascade(id); err != nil {
		return err
	}

	if s.Matrix != nil {
		for userID := range affected {
			s.Matrix.InvalidateUser(ctx, userID)
		}
	}
	return nil
}

type MarkAttendanceRequest struct {
	UserID   uint   `json:"userId" binding:"required"`
	Attended bool   `json:"attended"`
	Comments string `json:"comments"`
}

// MarkAttendance records presence for one user at one session. Repeat calls
// overwrite the existing record instead of duplicating it.
func (s *SessionService) MarkAttendance(ctx context.Context, sessionID uint, req MarkAttendanceRequest) (*model.Attendance, error) {
	if _, err := s.Repo.FindByID(sessionID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}

	a := &model.Attendance{
		SessionID: sessionID,
		UserID:    req.UserID,
		Attended:  req.Attended,
		Comments:  req.Comments,
	}
	if err := s.Attendance.Upsert(a); err != nil {
		return nil, err
	}

	// Upsert on conflict leaves a with the insert's zero id; reread the row.
	stored, err := s.Attendance.FindBySessionAndUser(sessionID, req.UserID)
	if err != nil {
		return nil, err
	}

	if s.Matrix != nil {
		s.Matrix.InvalidateUser(ctx, req.UserID)
	}
	return stored, nil
}

func (s *SessionService) ListAttendance(sessionID uint) ([]model.Attendance, error) {
	if _, err := s.Repo.FindByID(sessionID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	return s.Attendance.ListBySession(sessionID)
}
