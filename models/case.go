package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseNumberPrefix starts every generated case number.
const CaseNumberPrefix = "LEX"

// Case status constants
const (
	CaseStatusActive   = "Activo"
	CaseStatusPending  = "Pendiente"
	CaseStatusUrgent   = "Urgente"
	CaseStatusAppeal   = "Apelación"
	CaseStatusClosed   = "Cerrado"
	CaseStatusArchived = "Archivado"
)

// ActiveCaseStatuses are the statuses counted as open work.
var ActiveCaseStatuses = []string{CaseStatusActive, CaseStatusUrgent, CaseStatusPending, CaseStatusAppeal}

// Case categories
const (
	CaseCategoryCivil          = "Civil"
	CaseCategoryCriminal       = "Penal"
	CaseCategoryCommercial     = "Mercantil"
	CaseCategoryLabor          = "Laboral"
	CaseCategoryFamily         = "Familiar"
	CaseCategoryTax            = "Fiscal"
	CaseCategoryAdministrative = "Administrativo"
	CaseCategoryOther          = "Otro"
)

// Priority constants
const (
	PriorityLow    = "Baja"
	PriorityMedium = "Media"
	PriorityHigh   = "Alta"
	PriorityUrgent = "Urgente"
)

// Case represents a legal matter handled by the firm
type Case struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CaseNumber     string  `gorm:"not null;uniqueIndex" json:"caseNumber"`
	ExternalNumber *string `gorm:"index" json:"externalNumber,omitempty"` // Court-assigned file number
	Name           string  `gorm:"not null" json:"name"`
	Description    *string `gorm:"type:text" json:"description,omitempty"`

	ClientID string  `gorm:"type:uuid;not null;index" json:"clientId"`
	Client   *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	LawyerID string  `gorm:"type:uuid;not null;index" json:"lawyerId"`
	Lawyer   *Lawyer `gorm:"foreignKey:LawyerID" json:"lawyer,omitempty"`

	TribunalID *string   `gorm:"type:uuid;index" json:"tribunalId,omitempty"`
	Tribunal   *Tribunal `gorm:"foreignKey:TribunalID" json:"tribunal,omitempty"`

	JudgeID *string `gorm:"type:uuid;index" json:"judgeId,omitempty"`
	Judge   *Judge  `gorm:"foreignKey:JudgeID" json:"judge,omitempty"`

	Category string `gorm:"not null;default:Civil;index" json:"category"`
	Status   string `gorm:"not null;default:Activo;index" json:"status"`
	Priority string `gorm:"not null;default:Media" json:"priority"`

	StartDate string  `gorm:"not null" json:"startDate"`
	EndDate   *string `gorm:"index" json:"endDate,omitempty"`

	EstimatedHours  float64    `gorm:"not null" json:"estimatedHours"`
	BilledHours     float64    `gorm:"not null;default:0" json:"billedHours"`
	EstimatedValue  float64    `gorm:"not null;default:0" json:"estimatedValue"`
	BilledAmount    float64    `gorm:"not null;default:0" json:"billedAmount"`
	NextHearingDate *time.Time `json:"nextHearingDate,omitempty"`

	Notes *string `gorm:"type:text" json:"notes,omitempty"`
	Tags  *string `json:"tags,omitempty"`

	Hearings  []Hearing  `gorm:"foreignKey:CaseID" json:"hearings,omitempty"`
	Documents []Document `gorm:"foreignKey:CaseID" json:"documents,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// IsOpen reports whether the case still counts as active work.
func (c *Case) IsOpen() bool {
	for _, s := range ActiveCaseStatuses {
		if c.Status == s {
			return true
		}
	}
	return false
}

// FormatCaseNumber renders a case number such as LEX-2026-001.
func FormatCaseNumber(year, sequence int) string {
	return fmt.Sprintf("%s-%d-%03d", CaseNumberPrefix, year, sequence)
}

// CaseNumberPattern returns the LIKE pattern matching every case number of year.
func CaseNumberPattern(year int) string {
	return fmt.Sprintf("%s-%d-%%", CaseNumberPrefix, year)
}

// IsValidCaseStatus checks if a status is valid
func IsValidCaseStatus(status string) bool {
	switch status {
	case CaseStatusActive, CaseStatusPending, CaseStatusUrgent, CaseStatusAppeal, CaseStatusClosed, CaseStatusArchived:
		return true
	}
	return false
}

// IsValidCaseCategory checks if a category is valid
func IsValidCaseCategory(category string) bool {
	switch category {
	case CaseCategoryCivil, CaseCategoryCriminal, CaseCategoryCommercial, CaseCategoryLabor,
		CaseCategoryFamily, CaseCategoryTax, CaseCategoryAdministrative, CaseCategoryOther:
		return true
	}
	return false
}

// IsValidPriority checks if a priority is valid
func IsValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "cases"
}
