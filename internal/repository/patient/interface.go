// File: internal/repository/patient/interface.go
package patient

import (
	"context"

	"github.com/vikihealth/viki-backend/internal/domain"
)

// Repository handles patient row operations.
type Repository interface {
	Create(ctx context.Context, p *domain.Patient) (*domain.Patient, error)
	FindByID(ctx context.Context, id uint) (*domain.Patient, error)
	FindBySSOUserID(ctx context.Context, ssoUserID string) (*domain.Patient, error)
	FindByEmail(ctx context.Context, email string) (*domain.Patient, error)
	// UpsertSSO links an SSO identity to an existing account by email or
	// creates a fresh account, mirroring the federated sign-in flow.
	UpsertSSO(ctx context.Context, email, fullName, provider, ssoUserID string) (*domain.Patient, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Patient, error)
	// MergeMetadata overwrites the given keys in the patient's metadata map
	// inside one read-modify-write transaction; unrelated keys are preserved.
	MergeMetadata(ctx context.Context, patientID uint, fields map[string]any) error
}
