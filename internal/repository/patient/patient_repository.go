// File: internal/repository/patient/patient_repository.go
package patient

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/vikihealth/viki-backend/internal/domain"
)

var ErrPatientNotFound = errors.New("patient not found")

type gormPatientRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormPatientRepository{db: db}
}

func (r *gormPatientRepository) Create(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	if p == nil {
		return nil, errors.New("patient cannot be nil")
	}
	if err := p.IsValid(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		// Secure logging - no email or metadata in the log line
		log.Printf("[PatientRepository] Database error during patient creation: %v", err)
		return nil, errors.New("database error creating patient")
	}
	return p, nil
}

func (r *gormPatientRepository) FindByID(ctx context.Context, id uint) (*domain.Patient, error) {
	if id == 0 {
		return nil, errors.New("invalid patient ID")
	}
	var p domain.Patient
	err := r.db.WithContext(ctx).First(&p, id).Error
	return r.handleFindError(err, &p, "FindByID")
}

func (r *gormPatientRepository) FindBySSOUserID(ctx context.Context, ssoUserID string) (*domain.Patient, error) {
	if ssoUserID == "" {
		return nil, errors.New("invalid SSO user ID")
	}
	var p domain.Patient
	err := r.db.WithContext(ctx).Where("sso_user_id = ?", ssoUserID).First(&p).Error
	return r.handleFindError(err, &p, "FindBySSOUserID")
}

func (r *gormPatientRepository) FindByEmail(ctx context.Context, email string) (*domain.Patient, error) {
	if email == "" {
		return nil, errors.New("invalid email")
	}
	var p domain.Patient
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&p).Error
	return r.handleFindError(err, &p, "FindByEmail")
}

func (r *gormPatientRepository) UpsertSSO(ctx context.Context, email, fullName, provider, ssoUserID string) (*domain.Patient, error) {
	if p, err := r.FindBySSOUserID(ctx, ssoUserID); err == nil {
		return p, nil
	} else if !errors.Is(err, ErrPatientNotFound) {
		return nil, err
	}

	// Link the SSO identity to a pre-existing account with the same email.
	if existing, err := r.FindByEmail(ctx, email); err == nil {
		existing.SSOProvider = provider
		existing.SSOUserID = ssoUserID
		if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
			log.Printf("[PatientRepository] Database error linking SSO identity for patient ID %d: %v", existing.ID, err)
			return nil, errors.New("database error linking SSO identity")
		}
		return existing, nil
	} else if !errors.Is(err, ErrPatientNotFound) {
		return nil, err
	}

	return r.Create(ctx, &domain.Patient{
		Email:       email,
		FullName:    fullName,
		SSOProvider: provider,
		SSOUserID:   ssoUserID,
	})
}

func (r *gormPatientRepository) ListRecent(ctx context.Context, limit int) ([]domain.Patient, error) {
	if limit <= 0 || limit > 100 {
		limit = 20 // Safe default
	}
	var patients []domain.Patient
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Limit(limit).
		Find(&patients).Error
	if err != nil {
		log.Printf("[PatientRepository] Database error listing recent patients: %v", err)
		return nil, errors.New("database error listing patients")
	}
	return patients, nil
}

func (r *gormPatientRepository) MergeMetadata(ctx context.Context, patientID uint, fields map[string]any) error {
	if patientID == 0 {
		return errors.New("invalid patient ID")
	}
	if len(fields) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Patient
		if err := tx.First(&p, patientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPatientNotFound
			}
			log.Printf("[PatientRepository] Database error reading metadata for patient ID %d: %v", patientID, err)
			return errors.New("database error reading patient metadata")
		}

		if p.Metadata == nil {
			p.Metadata = domain.Metadata{}
		}
		for key, value := range fields {
			p.Metadata[key] = value
		}

		if err := tx.Model(&p).Update("metadata", p.Metadata).Error; err != nil {
			log.Printf("[PatientRepository] Database error merging metadata for patient ID %d: %v", patientID, err)
			return errors.New("database error merging patient metadata")
		}
		return nil
	})
}

// handleFindError - secure error handling without data leakage.
func (r *gormPatientRepository) handleFindError(err error, p *domain.Patient, operation string) (*domain.Patient, error) {
	if err == nil {
		return p, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPatientNotFound
	}
	log.Printf("[PatientRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
