// File: internal/services/account/service.go
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/vikihealth/viki-backend/internal/auth"
	"github.com/vikihealth/viki-backend/internal/repository/doctor"
	"github.com/vikihealth/viki-backend/internal/repository/patient"
)

type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Service handles federated sign-in: it upserts the SSO identity into the
// role-matching repository and mints the session token.
type Service struct {
	patients  patient.Repository
	doctors   doctor.Repository
	jwtSecret []byte
	logger    Logger
}

func NewService(patients patient.Repository, doctors doctor.Repository, jwtSecret string, logger Logger) (*Service, error) {
	if jwtSecret == "" {
		return nil, errors.New("JWT secret key is required")
	}
	return &Service{
		patients:  patients,
		doctors:   doctors,
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
	}, nil
}

// SignIn resolves the SSO identity to an account for the requested role and
// returns a session token plus the account's row ID.
func (s *Service) SignIn(ctx context.Context, role auth.Role, identity *auth.GoogleIdentity) (string, uint, error) {
	if identity == nil {
		return "", 0, errors.New("identity is required")
	}

	var subjectID uint
	switch role {
	case auth.RolePatient:
		p, err := s.patients.UpsertSSO(ctx, identity.Email, identity.Name, "Google", identity.Sub)
		if err != nil {
			return "", 0, fmt.Errorf("patient sign-in failed: %w", err)
		}
		subjectID = p.ID
	case auth.RoleDoctor:
		d, err := s.doctors.UpsertSSO(ctx, identity.Email, identity.Name, "Google", identity.Sub)
		if err != nil {
			return "", 0, fmt.Errorf("doctor sign-in failed: %w", err)
		}
		subjectID = d.ID
	default:
		return "", 0, fmt.Errorf("unknown sign-in role %q", role)
	}

	token, err := auth.GenerateJWT(subjectID, role, s.jwtSecret)
	if err != nil {
		return "", 0, fmt.Errorf("minting session token failed: %w", err)
	}

	s.logger.Info("subject signed in", "role", string(role), "subject_id", subjectID)
	return token, subjectID, nil
}

// ValidateSession checks a session token and returns the subject ID and role.
func (s *Service) ValidateSession(token string) (uint, auth.Role, error) {
	return auth.ValidateToken(token, s.jwtSecret)
}
