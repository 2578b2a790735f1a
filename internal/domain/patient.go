// File: internal/domain/patient.go
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Metadata is the patient's clinical metadata mapping, stored as a JSON
// column. Extraction merges overwrite individual keys, never the whole map.
type Metadata map[string]any

// Value implements driver.Valuer so gorm can persist the map as JSON.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for reading the JSON column back.
func (m *Metadata) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}
}

// Patient represents a patient account created through federated SSO.
type Patient struct {
	ID          uint      `json:"patient_id" gorm:"primarykey"`
	Email       string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FullName    string    `json:"full_name" gorm:"size:255"`
	SSOProvider string    `json:"sso_provider" gorm:"size:50"`
	SSOUserID   string    `json:"-" gorm:"uniqueIndex;size:255"`
	Metadata    Metadata  `json:"metadata" gorm:"type:json"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Patient) IsValid() error {
	if p.Email == "" {
		return errors.New("email is required")
	}
	return nil
}
