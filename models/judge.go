package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Judge struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name       string    `gorm:"not null;index" json:"name"`
	Title      *string   `json:"title,omitempty"`
	TribunalID *string   `gorm:"type:uuid;index" json:"tribunalId,omitempty"`
	Tribunal   *Tribunal `gorm:"foreignKey:TribunalID" json:"tribunal,omitempty"`
	Specialty  *string   `json:"specialty,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Email      *string   `json:"email,omitempty"`
	Notes      *string   `gorm:"type:text" json:"notes,omitempty"`
	IsActive   bool      `gorm:"not null;index" json:"isActive"`
}

// BeforeCreate hook to generate UUID
func (j *Judge) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	return nil
}

func (Judge) ArchiveUpdates(at time.Time, by *string) map[string]interface{} {
	return map[string]interface{}{"is_active": false, "updated_at": at}
}

func (Judge) VisibleScope(db *gorm.DB) *gorm.DB {
	return activeFlagScope(db)
}

// TableName specifies the table name for Judge model
func (Judge) TableName() string {
	return "judges"
}
