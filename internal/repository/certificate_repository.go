package repository

import (
	"foodsafe_backend/internal/model"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

func (r *CertificateRepository) Create(c *model.Certificate) error {
	return r.DB.Create(c).Error
}

func (r *CertificateRepository) FindByID(id uint) (*model.Certificate, error) {
	var c model.Certificate
	err := r.DB.First(&c, id).Error
	return &c, err
}

func (r *CertificateRepository) FindByVerificationCode(code string) (*model.Certificate, error) {
	var c model.Certificate
	err := r.DB.Where("verification_code = ?", code).First(&c).Error
	return &c, err
}

func (r *CertificateRepository) ListBySession(sessionID uint) ([]model.Certificate, error) {
	var cs []model.Certificate
	err := r.DB.Where("session_id = ?", sessionID).Order("issued_at desc").Find(&cs).Error
	return cs, err
}

func (r *CertificateRepository) ListByUser(userID uint) ([]model.Certificate, error) {
	var cs []model.Certificate
	err := r.DB.Where("user_id = ?", userID).Order("issued_at desc").Find(&cs).Error
	return cs, err
}

func (r *CertificateRepository) ListByUserAndSessions(userID uint, sessionIDs []uint) ([]model.Certificate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	var cs []model.Certificate
	err := r.DB.Where("user_id = ? AND session_id IN ?", userID, sessionIDs).Find(&cs).Error
	return cs, err
}
