// File: internal/domain/doctor.go
package domain

import (
	"errors"
	"time"
)

// Doctor represents a clinician account created through federated SSO.
type Doctor struct {
	ID          uint      `json:"doctor_id" gorm:"primarykey"`
	Email       string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FullName    string    `json:"full_name" gorm:"size:255;not null"`
	SSOProvider string    `json:"sso_provider" gorm:"size:100"`
	SSOUserID   string    `json:"-" gorm:"uniqueIndex;size:255"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (d *Doctor) IsValid() error {
	if d.Email == "" {
		return errors.New("email is required")
	}
	return nil
}
