package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"foodsafe_backend/internal/model"
	"foodsafe_backend/internal/repository"
	"foodsafe_backend/internal/util"

	"gorm.io/gorm"
)

// CertificateService issues and verifies proof-of-completion certificates.
// A certificate is immutable once issued; its verification code is an
// opaque token for external auditors.
type CertificateService struct {
	Repo     *repository.CertificateRepository
	Sessions *repository.SessionRepository
	Storage  *StorageService
	Matrix   *MatrixService
}

func NewCertificateService(
	repo *repository.CertificateRepository,
	sessions *repository.SessionRepository,
	storage *StorageService,
	matrix *MatrixService,
) *CertificateService {
	return &CertificateService{Repo: repo, Sessions: sessions, Storage: storage, Matrix: matrix}
}

type IssueCertificateRequest struct {
	UserID        uint   `json:"userId" binding:"required"`
	FileReference string `json:"fileReference" binding:"required"`
}

// Issue records a certificate against an existing session. FileReference is
// an opaque blob-store pointer; the bytes never pass through here.
func (s *CertificateService) Issue(ctx context.Context, sessionID uint, req IssueCertificateRequest) (*model.Certificate, error) {
	if _, err := s.Sessions.FindByID(sessionID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}

	cert := &model.Certificate{
		SessionID:        sessionID,
		UserID:           req.UserID,
		FileReference:    req.FileReference,
		IssuedAt:         time.Now(),
		VerificationCode: model.GenerateUUID(),
	}
	if err := s.Repo.Create(cert); err != nil {
		return nil, err
	}

	if s.Matrix != nil {
		s.Matrix.InvalidateUser(ctx, req.UserID)
	}
	return cert, nil
}

// IssueWithUpload stores the uploaded certificate file first, then issues
// against the resulting reference.
func (s *CertificateService) IssueWithUpload(ctx context.Context, sessionID, userID uint, file *multipart.FileHeader) (*model.Certificate, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := false
	for _, e := range util.AllowedCertificateExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("unsupported certificate file type %q", ext)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	filename := fmt.Sprintf("certificates/%d/%d-%s%s", sessionID, userID, model.GenerateUUID(), ext)
	ref, err := s.Storage.Upload(ctx, filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	return s.Issue(ctx, sessionID, IssueCertificateRequest{UserID: userID, FileReference: ref})
}

// Verify resolves a verification code presented by an external auditor.
func (s *CertificateService) Verify(code string) (*model.Certificate, error) {
	cert, err := s.Repo.FindByVerificationCode(code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCertificateNotFound
		}
		return nil, err
	}
	return cert, nil
}

func (s *CertificateService) ListForUser(userID uint) ([]model.Certificate, error) {
	return s.Repo.ListByUser(userID)
}

func (s *CertificateService) ListForSession(sessionID uint) ([]model.Certificate, error) {
	if _, err := s.Sessions.FindByID(sessionID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	return s.Repo.ListBySession(sessionID)
}
