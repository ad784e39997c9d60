package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityType classifies an activity feed entry
type ActivityType string

const (
	ActivityCaseCreated      ActivityType = "case_created"
	ActivityCaseUpdated      ActivityType = "case_updated"
	ActivityCaseClosed       ActivityType = "case_closed"
	ActivityHearingScheduled ActivityType = "hearing_scheduled"
	ActivityHearingCompleted ActivityType = "hearing_completed"
	ActivityDocumentUploaded ActivityType = "document_uploaded"
	ActivityDocumentDeleted  ActivityType = "document_deleted"
	ActivityTimeEntryAdded   ActivityType = "time_entry_added"
	ActivityClientAdded      ActivityType = "client_added"
	ActivityLawyerAdded      ActivityType = "lawyer_added"
	ActivityUserLogin        ActivityType = "user_login"
	ActivityUserLogout       ActivityType = "user_logout"
	ActivityOther            ActivityType = "other"
)

// ErrActivityImmutable is returned by hooks guarding the activity log.
var ErrActivityImmutable = errors.New("activity records are append-only")

// Activity is an append-only record of something that happened in the firm.
type Activity struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	UserID *string `gorm:"type:uuid;index" json:"userId,omitempty"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Type        ActivityType      `gorm:"not null;index" json:"type"`
	EntityType  string            `gorm:"index:idx_activity_entity" json:"entityType,omitempty"` // e.g. "case", "document"
	EntityID    *string           `gorm:"type:uuid;index:idx_activity_entity" json:"entityId,omitempty"`
	Description string            `gorm:"type:text;not null" json:"description"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty"`
	IPAddress   *string           `json:"ipAddress,omitempty"`
}

// BeforeCreate generates the UUID
func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// BeforeUpdate prevents modification of activities
func (a *Activity) BeforeUpdate(tx *gorm.DB) error {
	return ErrActivityImmutable
}

// BeforeDelete prevents deletion of activities
func (a *Activity) BeforeDelete(tx *gorm.DB) error {
	return ErrActivityImmutable
}

// TableName specifies the table name
func (Activity) TableName() string {
	return "activities"
}
