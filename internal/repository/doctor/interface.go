// File: internal/repository/doctor/interface.go
package doctor

import (
	"context"

	"github.com/vikihealth/viki-backend/internal/domain"
)

// Repository handles doctor row operations.
type Repository interface {
	Create(ctx context.Context, d *domain.Doctor) (*domain.Doctor, error)
	FindByID(ctx context.Context, id uint) (*domain.Doctor, error)
	FindBySSOUserID(ctx context.Context, ssoUserID string) (*domain.Doctor, error)
	FindByEmail(ctx context.Context, email string) (*domain.Doctor, error)
	UpsertSSO(ctx context.Context, email, fullName, provider, ssoUserID string) (*domain.Doctor, error)
}
