// File: internal/repository/doctor/doctor_repository.go
package doctor

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/vikihealth/viki-backend/internal/domain"
)

var ErrDoctorNotFound = errors.New("doctor not found")

type gormDoctorRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormDoctorRepository{db: db}
}

func (r *gormDoctorRepository) Create(ctx context.Context, d *domain.Doctor) (*domain.Doctor, error) {
	if d == nil {
		return nil, errors.New("doctor cannot be nil")
	}
	if err := d.IsValid(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		log.Printf("[DoctorRepository] Database error during doctor creation: %v", err)
		return nil, errors.New("database error creating doctor")
	}
	return d, nil
}

func (r *gormDoctorRepository) FindByID(ctx context.Context, id uint) (*domain.Doctor, error) {
	if id == 0 {
		return nil, errors.New("invalid doctor ID")
	}
	var d domain.Doctor
	err := r.db.WithContext(ctx).First(&d, id).Error
	return r.handleFindError(err, &d, "FindByID")
}

func (r *gormDoctorRepository) FindBySSOUserID(ctx context.Context, ssoUserID string) (*domain.Doctor, error) {
	if ssoUserID == "" {
		return nil, errors.New("invalid SSO user ID")
	}
	var d domain.Doctor
	err := r.db.WithContext(ctx).Where("sso_user_id = ?", ssoUserID).First(&d).Error
	return r.handleFindError(err, &d, "FindBySSOUserID")
}

func (r *gormDoctorRepository) FindByEmail(ctx context.Context, email string) (*domain.Doctor, error) {
	if email == "" {
		return nil, errors.New("invalid email")
	}
	var d domain.Doctor
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&d).Error
	return r.handleFindError(err, &d, "FindByEmail")
}

func (r *gormDoctorRepository) UpsertSSO(ctx context.Context, email, fullName, provider, ssoUserID string) (*domain.Doctor, error) {
	if d, err := r.FindBySSOUserID(ctx, ssoUserID); err == nil {
		return d, nil
	} else if !errors.Is(err, ErrDoctorNotFound) {
		return nil, err
	}

	if existing, err := r.FindByEmail(ctx, email); err == nil {
		existing.SSOProvider = provider
		existing.SSOUserID = ssoUserID
		if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
			log.Printf("[DoctorRepository] Database error linking SSO identity for doctor ID %d: %v", existing.ID, err)
			return nil, errors.New("database error linking SSO identity")
		}
		return existing, nil
	} else if !errors.Is(err, ErrDoctorNotFound) {
		return nil, err
	}

	return r.Create(ctx, &domain.Doctor{
		Email:       email,
		FullName:    fullName,
		SSOProvider: provider,
		SSOUserID:   ssoUserID,
	})
}

func (r *gormDoctorRepository) handleFindError(err error, d *domain.Doctor, operation string) (*domain.Doctor, error) {
	if err == nil {
		return d, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDoctorNotFound
	}
	log.Printf("[DoctorRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
