package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client type constants
const (
	ClientTypeIndividual = "Persona Física"
	ClientTypeCompany    = "Persona Moral"
)

type Client struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name          string  `gorm:"not null;index" json:"name"`
	Type          string  `gorm:"not null" json:"type"`
	RFC           *string `gorm:"column:rfc;uniqueIndex" json:"rfc,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Address       *string `gorm:"type:text" json:"address,omitempty"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	Notes         *string `gorm:"type:text" json:"notes,omitempty"`
	IsActive      bool    `gorm:"not null;index" json:"isActive"`
}

// BeforeCreate hook to generate UUID
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// ArchiveUpdates deactivates the client.
func (Client) ArchiveUpdates(at time.Time, by *string) map[string]interface{} {
	return map[string]interface{}{"is_active": false, "updated_at": at}
}

// VisibleScope keeps active clients only.
func (Client) VisibleScope(db *gorm.DB) *gorm.DB {
	return activeFlagScope(db)
}

// IsValidClientType checks if a client type is valid
func IsValidClientType(t string) bool {
	return t == ClientTypeIndividual || t == ClientTypeCompany
}

// TableName specifies the table name for Client model
func (Client) TableName() string {
	return "clients"
}
