package models

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxEntryHours bounds a single entry; hours are kept to two decimals.
const MaxEntryHours = 999.99

// Time entry status constants
const (
	TimeEntryStatusPending  = "Pendiente"
	TimeEntryStatusApproved = "Aprobado"
	TimeEntryStatusInvoiced = "Facturado"
	TimeEntryStatusRejected = "Rechazado"
)

// Activity types a lawyer can log time against
const (
	WorkTypeResearch       = "Investigación"
	WorkTypeDrafting       = "Redacción"
	WorkTypeHearing        = "Audiencia"
	WorkTypeClientMeeting  = "Reunión con cliente"
	WorkTypePhoneCall      = "Llamada telefónica"
	WorkTypeDocumentReview = "Revisión de documentos"
	WorkTypeNegotiation    = "Negociación"
	WorkTypeConsultation   = "Consulta"
	WorkTypeOther          = "Otro"
)

// ErrTimeEntryLocked is returned when an invoiced entry is about to change.
var ErrTimeEntryLocked = errors.New("time entry is invoiced and can no longer change")

// TimeEntry is a block of hours a lawyer worked on a case.
type TimeEntry struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CaseID string `gorm:"type:uuid;not null;index" json:"caseId"`
	Case   *Case  `gorm:"foreignKey:CaseID" json:"case,omitempty"`

	LawyerID string  `gorm:"type:uuid;not null;index" json:"lawyerId"`
	Lawyer   *Lawyer `gorm:"foreignKey:LawyerID" json:"lawyer,omitempty"`

	Date         string  `gorm:"not null;index" json:"date"`
	StartTime    *string `json:"startTime,omitempty"`
	EndTime      *string `json:"endTime,omitempty"`
	Hours        float64 `gorm:"not null" json:"hours"`
	Description  string  `gorm:"type:text;not null" json:"description"`
	ActivityType string  `gorm:"not null;default:Otro" json:"activityType"`
	IsBillable   bool    `gorm:"not null;index" json:"isBillable"`
	HourlyRate   float64 `gorm:"not null;default:0" json:"hourlyRate"`
	TotalAmount  float64 `gorm:"not null;default:0" json:"totalAmount"`

	Status     string     `gorm:"not null;default:Pendiente;index" json:"status"`
	ApprovedBy *string    `gorm:"type:uuid" json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	InvoicedAt *time.Time `json:"invoicedAt,omitempty"`
	CreatedBy  *string    `gorm:"type:uuid" json:"createdBy,omitempty"`
}

// BeforeCreate hook to generate UUID
func (t *TimeEntry) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// BeforeSave keeps totalAmount derived from hours and rate.
func (t *TimeEntry) BeforeSave(tx *gorm.DB) error {
	t.TotalAmount = RoundMoney(t.Hours * t.HourlyRate)
	return nil
}

// IsLocked reports whether the entry was invoiced.
func (t *TimeEntry) IsLocked() bool {
	return t.Status == TimeEntryStatusInvoiced
}

// BillableHours is the entry's contribution to its case's billed hours.
func (t *TimeEntry) BillableHours() float64 {
	if !t.IsBillable {
		return 0
	}
	return t.Hours
}

// RoundMoney rounds to two decimals.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// IsValidTimeEntryStatus checks if a status is valid
func IsValidTimeEntryStatus(status string) bool {
	switch status {
	case TimeEntryStatusPending, TimeEntryStatusApproved, TimeEntryStatusInvoiced, TimeEntryStatusRejected:
		return true
	}
	return false
}

// IsValidWorkType checks if an activity type is valid
func IsValidWorkType(t string) bool {
	switch t {
	case WorkTypeResearch, WorkTypeDrafting, WorkTypeHearing, WorkTypeClientMeeting, WorkTypePhoneCall,
		WorkTypeDocumentReview, WorkTypeNegotiation, WorkTypeConsultation, WorkTypeOther:
		return true
	}
	return false
}

// TableName specifies the table name for TimeEntry model
func (TimeEntry) TableName() string {
	return "time_entries"
}
