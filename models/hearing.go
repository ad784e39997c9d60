package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Hearing status constants
const (
	HearingStatusScheduled = "Programada"
	HearingStatusCompleted = "Completada"
	HearingStatusCancelled = "Cancelada"
	HearingStatusPostponed = "Pospuesta"
	HearingStatusUrgent    = "Urgente"
)

// PendingHearingStatuses are the statuses of hearings still to happen.
var PendingHearingStatuses = []string{HearingStatusScheduled, HearingStatusUrgent}

// Hearing types
const (
	HearingTypeInitial      = "Audiencia Inicial"
	HearingTypeEvidence     = "Audiencia de Pruebas"
	HearingTypeArguments    = "Audiencia de Alegatos"
	HearingTypeJudgment     = "Audiencia de Sentencia"
	HearingTypeConciliation = "Conciliación"
	HearingTypeMediation    = "Mediación"
	HearingTypeAppearance   = "Comparecencia"
	HearingTypeStatement    = "Declaración"
	HearingTypeOther        = "Otro"
)

// TimeLayout is the clock format stored for hearing times.
const TimeLayout = "15:04"

type Hearing struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CaseID string `gorm:"type:uuid;not null;index" json:"caseId"`
	Case   *Case  `gorm:"foreignKey:CaseID" json:"case,omitempty"`

	TribunalID *string   `gorm:"type:uuid;index" json:"tribunalId,omitempty"`
	Tribunal   *Tribunal `gorm:"foreignKey:TribunalID" json:"tribunal,omitempty"`

	JudgeID *string `gorm:"type:uuid" json:"judgeId,omitempty"`
	Judge   *Judge  `gorm:"foreignKey:JudgeID" json:"judge,omitempty"`

	Date        string    `gorm:"not null;index" json:"date"`
	Time        string    `gorm:"not null" json:"time"`
	EndTime     *string   `json:"endTime,omitempty"`
	ScheduledAt time.Time `gorm:"not null;index" json:"scheduledAt"` // Date and Time combined, used for ordering and windows

	Type         string  `gorm:"not null;default:Otro" json:"type"`
	Status       string  `gorm:"not null;default:Programada;index" json:"status"`
	Location     *string `json:"location,omitempty"`
	Description  *string `gorm:"type:text" json:"description,omitempty"`
	Notes        *string `gorm:"type:text" json:"notes,omitempty"`
	Result       *string `gorm:"type:text" json:"result,omitempty"`
	Reminder     bool    `gorm:"not null" json:"reminder"`
	ReminderSent bool    `gorm:"not null;default:false" json:"reminderSent"`
}

// BeforeCreate hook to generate UUID
func (h *Hearing) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return nil
}

// BeforeSave derives ScheduledAt from Date and Time in the process location.
func (h *Hearing) BeforeSave(tx *gorm.DB) error {
	if h.Date == "" {
		return nil
	}
	at, err := CombineDateTime(h.Date, h.Time, time.Local)
	if err != nil {
		return err
	}
	h.ScheduledAt = at
	return nil
}

// IsPending reports whether the hearing is still expected to take place.
func (h *Hearing) IsPending() bool {
	return h.Status == HearingStatusScheduled || h.Status == HearingStatusUrgent
}

// CombineDateTime joins a YYYY-MM-DD date and an HH:MM time.
func CombineDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if clock == "" {
		clock = "00:00"
	}
	if len(clock) > 5 {
		clock = clock[:5]
	}
	at, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid hearing date/time %q %q: %w", date, clock, err)
	}
	return at, nil
}

// IsValidHearingStatus checks if a status is valid
func IsValidHearingStatus(status string) bool {
	switch status {
	case HearingStatusScheduled, HearingStatusCompleted, HearingStatusCancelled, HearingStatusPostponed, HearingStatusUrgent:
		return true
	}
	return false
}

// IsValidHearingType checks if a hearing type is valid
func IsValidHearingType(t string) bool {
	switch t {
	case HearingTypeInitial, HearingTypeEvidence, HearingTypeArguments, HearingTypeJudgment,
		HearingTypeConciliation, HearingTypeMediation, HearingTypeAppearance, HearingTypeStatement,
		HearingTypeOther:
		return true
	}
	return false
}

// TableName specifies the table name for Hearing model
func (Hearing) TableName() string {
	return "hearings"
}
