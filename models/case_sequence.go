package models

import "time"

// CaseSequence holds the last case number suffix issued for a year.
type CaseSequence struct {
	Year      int       `gorm:"primarykey;autoIncrement:false" json:"year"`
	LastValue int       `gorm:"not null;default:0" json:"lastValue"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for CaseSequence model
func (CaseSequence) TableName() string {
	return "case_sequences"
}
