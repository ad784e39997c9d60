package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tribunal types
const (
	TribunalTypeCivil          = "Civil"
	TribunalTypeCriminal       = "Penal"
	TribunalTypeCommercial     = "Mercantil"
	TribunalTypeLabor          = "Laboral"
	TribunalTypeFamily         = "Familiar"
	TribunalTypeTax            = "Fiscal"
	TribunalTypeAdministrative = "Administrativo"
	TribunalTypeArbitration    = "Arbitraje"
	TribunalTypeOther          = "Otro"
)

// Tribunal is a court or arbitration body where cases are heard.
type Tribunal struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name         string  `gorm:"not null;index" json:"name"`
	Type         string  `gorm:"not null;default:Civil" json:"type"`
	Jurisdiction *string `json:"jurisdiction,omitempty"`
	Address      *string `gorm:"type:text" json:"address,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Email        *string `json:"email,omitempty"`
	Schedule     *string `json:"schedule,omitempty"`
	Notes        *string `gorm:"type:text" json:"notes,omitempty"`
	IsActive     bool    `gorm:"not null;index" json:"isActive"`

	Judges []Judge `gorm:"foreignKey:TribunalID" json:"judges,omitempty"`
}

// BeforeCreate hook to generate UUID
func (t *Tribunal) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

func (Tribunal) ArchiveUpdates(at time.Time, by *string) map[string]interface{} {
	return map[string]interface{}{"is_active": false, "updated_at": at}
}

func (Tribunal) VisibleScope(db *gorm.DB) *gorm.DB {
	return activeFlagScope(db)
}

// IsValidTribunalType checks if a tribunal type is valid
func IsValidTribunalType(t string) bool {
	switch t {
	case TribunalTypeCivil, TribunalTypeCriminal, TribunalTypeCommercial, TribunalTypeLabor,
		TribunalTypeFamily, TribunalTypeTax, TribunalTypeAdministrative, TribunalTypeArbitration,
		TribunalTypeOther:
		return true
	}
	return false
}

// TableName specifies the table name for Tribunal model
func (Tribunal) TableName() string {
	return "tribunals"
}
