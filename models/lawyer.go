package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lawyer status constants
const (
	LawyerStatusActive   = "Activo"
	LawyerStatusLeave    = "Licencia"
	LawyerStatusInactive = "Inactivo"
)

type Lawyer struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID *string `gorm:"type:uuid;index" json:"userId,omitempty"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Name       string  `gorm:"not null" json:"name"`
	Title      *string `json:"title,omitempty"`
	Specialty  *string `gorm:"index" json:"specialty,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Avatar     *string `json:"avatar,omitempty"`
	Status     string  `gorm:"not null;default:Activo;index" json:"status"`
	HourlyRate float64 `gorm:"not null;default:0" json:"hourlyRate"`
	Bio        *string `gorm:"type:text" json:"bio,omitempty"`
	HireDate   *string `json:"hireDate,omitempty"`
	IsActive   bool    `gorm:"not null;index" json:"isActive"`
}

// BeforeCreate hook to generate UUID
func (l *Lawyer) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// ArchiveUpdates deactivates the lawyer.
func (Lawyer) ArchiveUpdates(at time.Time, by *string) map[string]interface{} {
	return map[string]interface{}{
		"is_active":  false,
		"status":     LawyerStatusInactive,
		"updated_at": at,
	}
}

// VisibleScope keeps active lawyers only.
func (Lawyer) VisibleScope(db *gorm.DB) *gorm.DB {
	return activeFlagScope(db)
}

// IsValidLawyerStatus checks if a status is valid
func IsValidLawyerStatus(status string) bool {
	switch status {
	case LawyerStatusActive, LawyerStatusLeave, LawyerStatusInactive:
		return true
	}
	return false
}

// TableName specifies the table name for Lawyer model
func (Lawyer) TableName() string {
	return "lawyers"
}
